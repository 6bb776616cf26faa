package handlers

import (
	"net/http"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/microservices/order/realtime"
	"restaurant-system/internal/microservices/order/service"
	"restaurant-system/internal/microservices/payment"
	"restaurant-system/internal/microservices/qrcode"
)

type Handler struct {
	OrderHandler   *OrderHandler
	MenuHandler    *MenuHandler
	PaymentHandler *PaymentHandler
	QRHandler      *QRHandler
	WS             http.Handler
	SSE            http.Handler
}

type Options struct {
	PublicURL      string
	AllowedOrigins []string
}

func New(s *service.Service, pay *payment.Generator, qr *qrcode.Generator, opts Options, log *logger.Logger) *Handler {
	return &Handler{
		OrderHandler:   NewOrderHandler(s.OrderService, log),
		MenuHandler:    NewMenuHandler(s.Menu, log),
		PaymentHandler: NewPaymentHandler(pay, s.OrderService, opts.PublicURL, log),
		QRHandler:      NewQRHandler(qr, opts.PublicURL, log),
		WS:             realtime.NewWSHandler(s.OrderService, log, opts.AllowedOrigins),
		SSE:            realtime.NewSSEHandler(s.OrderService, log),
	}
}

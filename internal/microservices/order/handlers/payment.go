package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/order/service"
	"restaurant-system/internal/microservices/payment"
)

type PaymentHandler struct {
	gen       *payment.Generator
	orders    service.OrderServiceInterface
	publicURL string
	log       *logger.Logger
}

func NewPaymentHandler(gen *payment.Generator, orders service.OrderServiceInterface, publicURL string, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{gen: gen, orders: orders, publicURL: publicURL, log: log}
}

func (ph *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	link, err := ph.gen.URL(httpx.BaseURL(r, ph.publicURL), payment.Request{
		OrderID:     req.OrderID,
		Amount:      req.Amount,
		TableNumber: req.TableNumber,
		ItemCount:   len(req.Items),
	})
	if err != nil {
		httpx.WriteError(w, httpx.StatusFor(err), err.Error())
		return
	}
	ph.log.Info("payment_initiated", map[string]any{"order_id": req.OrderID, "live": ph.gen.Live()})
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"payment_url": link,
		"message":     "Payment initiated",
	})
}

// Success is the return landing of both the demo and the PayFast flow.
func (ph *PaymentHandler) Success(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.URL.Query().Get("m_payment_id"))
	if orderID != "" {
		ph.markPaid(r, orderID)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := payment.RenderSuccess(w, orderID); err != nil {
		ph.log.Error("render_payment_page_failed", err, nil)
	}
}

func (ph *PaymentHandler) Cancel(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := payment.RenderCancel(w); err != nil {
		ph.log.Error("render_payment_page_failed", err, nil)
	}
}

// Notify accepts PayFast's server-to-server notification. The signature is
// not verified; a COMPLETE status marks the order paid.
func (ph *PaymentHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	orderID := strings.TrimSpace(r.PostForm.Get("m_payment_id"))
	if r.PostForm.Get("payment_status") == "COMPLETE" && orderID != "" {
		ph.markPaid(r, orderID)
	}
	w.WriteHeader(http.StatusOK)
}

func (ph *PaymentHandler) markPaid(r *http.Request, orderID string) {
	err := ph.orders.MarkPaid(r.Context(), orderID)
	switch {
	case err == nil:
		ph.log.Info("order_paid", map[string]any{"order_id": orderID})
	case errors.Is(err, domain.ErrNotFound):
		ph.log.Warn("paid_order_unknown", map[string]any{"order_id": orderID})
	default:
		ph.log.Error("mark_paid_failed", err, map[string]any{"order_id": orderID})
	}
}

package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	TableNumber int              `json:"tableNumber"`
	Items       []OrderItem      `json:"items"`
	Total       *decimal.Decimal `json:"total"`
}

type CreateOrderResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	OrderID  string `json:"orderId"`
	Degraded bool   `json:"degraded,omitempty"`
}

type UpdateStatusRequest struct {
	OrderID string      `json:"orderId"`
	Status  OrderStatus `json:"status"`
}

type CreatePaymentRequest struct {
	OrderID     string            `json:"orderId"`
	Amount      decimal.Decimal   `json:"amount"`
	TableNumber int               `json:"tableNumber"`
	Items       []json.RawMessage `json:"items"`
}

type CreateMenuItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

type AdminStats struct {
	TodayOrders  int     `json:"todayOrders"`
	TodayRevenue string  `json:"todayRevenue"`
	ActiveOrders int     `json:"activeOrders"`
	RecentOrders []Order `json:"recentOrders"`
}

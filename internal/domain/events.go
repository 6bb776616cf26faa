package domain

import "encoding/json"

// Push channel event names.
const (
	EventCurrentOrders     = "current_orders"
	EventAnalyticsUpdate   = "analytics_update"
	EventNewOrder          = "new_order"
	EventOrderUpdated      = "order_updated"
	EventUpdateOrderStatus = "update_order_status"
	EventError             = "error"
)

// OrderUpdated is the minimal status delta sent to every client.
type OrderUpdated struct {
	OrderID string      `json:"orderId"`
	Status  OrderStatus `json:"status"`
}

// Envelope frames every message on the push channel and the event relay.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func NewEnvelope(event string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: b}, nil
}

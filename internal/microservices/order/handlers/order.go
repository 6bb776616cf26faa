package handlers

import (
	"encoding/json"
	"net/http"

	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/order/service"
)

const maxBodyBytes = 1 << 20

type OrderHandler struct {
	service service.OrderServiceInterface
	log     *logger.Logger
}

func NewOrderHandler(s service.OrderServiceInterface, log *logger.Logger) *OrderHandler {
	return &OrderHandler{service: s, log: log}
}

func (oh *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := oh.service.PlaceOrder(r.Context(), req)
	if err != nil {
		oh.fail(w, "place_order_failed", err, "Failed to save order")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, domain.CreateOrderResponse{
		Success:  true,
		Message:  "Order placed successfully!",
		OrderID:  res.OrderID,
		Degraded: !res.Persisted,
	})
}

func (oh *OrderHandler) KitchenOrders(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "orders": oh.service.ActiveOrders()})
}

func (oh *OrderHandler) AdminStats(w http.ResponseWriter, _ *http.Request) {
	st := oh.service.AdminStats()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"todayOrders":  st.TodayOrders,
		"todayRevenue": st.TodayRevenue,
		"activeOrders": st.ActiveOrders,
		"recentOrders": st.RecentOrders,
	})
}

func (oh *OrderHandler) Analytics(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "analytics": oh.service.Analytics()})
}

// UpdateStatus is the HTTP twin of the push channel's update_order_status.
func (oh *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateStatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := oh.service.UpdateStatus(r.Context(), req.OrderID, req.Status); err != nil {
		oh.fail(w, "update_status_failed", err, "Failed to update order")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "orderId": req.OrderID, "status": req.Status})
}

// fail answers with a flat message from httpx.PublicMessage. Only
// unexpected errors are logged.
func (oh *OrderHandler) fail(w http.ResponseWriter, action string, err error, generic string) {
	code := httpx.StatusFor(err)
	if code == http.StatusInternalServerError {
		oh.log.Error(action, err, nil)
	}
	httpx.WriteError(w, code, httpx.PublicMessage(err, generic))
}

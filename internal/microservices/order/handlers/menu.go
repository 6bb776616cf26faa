package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/order/repository"
)

type MenuHandler struct {
	catalog *repository.MenuCatalog
	log     *logger.Logger
}

func NewMenuHandler(c *repository.MenuCatalog, log *logger.Logger) *MenuHandler {
	return &MenuHandler{catalog: c, log: log}
}

func (mh *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "menu": mh.catalog.Menu(r.Context())})
}

// AddMenuItem acknowledges the admin form without changing the catalog.
func (mh *MenuHandler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMenuItemRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" || !req.Price.IsPositive() {
		httpx.WriteError(w, http.StatusBadRequest, "name, category and a positive price are required")
		return
	}
	mh.log.Info("menu_item_submitted", map[string]any{
		"name": req.Name, "price": req.Price.StringFixed(2), "category": req.Category,
	})
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Menu item added successfully! (Demo mode)",
	})
}

package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"restaurant-system/internal/common/config"
	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/common/logger"
)

type RouterConfig struct {
	CORS      config.CORS
	StaticDir string
	Gatherer  prometheus.Gatherer // nil disables /metrics
	Observer  httpx.Observer
}

func NewRouter(h *Handler, rc RouterConfig, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.AccessLog(log, rc.Observer))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   rc.CORS.AllowedOrigins,
		AllowedMethods:   rc.CORS.AllowedMethods,
		AllowedHeaders:   rc.CORS.AllowedHeaders,
		AllowCredentials: rc.CORS.AllowCredentials,
		MaxAge:           rc.CORS.MaxAge,
	}).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
	})
	if rc.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rc.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", h.MenuHandler.GetMenu)
		r.Post("/order", h.OrderHandler.PlaceOrder)
		r.Post("/order/status", h.OrderHandler.UpdateStatus)
		r.Get("/kitchen/orders", h.OrderHandler.KitchenOrders)
		r.Get("/admin/stats", h.OrderHandler.AdminStats)
		r.Post("/admin/menu", h.MenuHandler.AddMenuItem)
		r.Get("/analytics", h.OrderHandler.Analytics)
		r.Post("/payment/create", h.PaymentHandler.Create)
		r.Get("/qrcode/{tableNumber}", h.QRHandler.Table)
		r.Get("/qrcodes/generate-all", h.QRHandler.All)
		r.Method(http.MethodGet, "/events", h.SSE)
	})

	r.Get("/payment/success", h.PaymentHandler.Success)
	r.Get("/payment/cancel", h.PaymentHandler.Cancel)
	r.Post("/payment/notify", h.PaymentHandler.Notify)
	r.Method(http.MethodGet, "/socket", h.WS)

	if rc.StaticDir != "" {
		for route, file := range map[string]string{
			"/kitchen": "kitchen.html",
			"/admin":   "admin.html",
			"/qrcodes": "qrcodes.html",
		} {
			path := filepath.Join(rc.StaticDir, file)
			r.Get(route, func(w http.ResponseWriter, req *http.Request) { http.ServeFile(w, req, path) })
		}
		r.Handle("/*", http.FileServer(http.Dir(rc.StaticDir)))
	}
	return r
}

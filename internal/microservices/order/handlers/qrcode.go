package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/microservices/qrcode"
)

type QRHandler struct {
	gen       *qrcode.Generator
	publicURL string
	log       *logger.Logger
}

func NewQRHandler(gen *qrcode.Generator, publicURL string, log *logger.Logger) *QRHandler {
	return &QRHandler{gen: gen, publicURL: publicURL, log: log}
}

func (qh *QRHandler) Table(w http.ResponseWriter, r *http.Request) {
	table, err := strconv.Atoi(chi.URLParam(r, "tableNumber"))
	if err != nil || table < 1 {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid table number")
		return
	}
	c, err := qh.gen.Generate(httpx.BaseURL(r, qh.publicURL), table)
	if err != nil {
		qh.log.Error("qr_generate_failed", err, map[string]any{"table": table})
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"tableNumber": c.TableNumber,
		"qrCode":      c.QRCode,
		"orderURL":    c.OrderURL,
	})
}

func (qh *QRHandler) All(w http.ResponseWriter, r *http.Request) {
	n := httpx.AtoiDefault(r.URL.Query().Get("tables"), qrcode.DefaultTables)
	codes, err := qh.gen.GenerateAll(r.Context(), httpx.BaseURL(r, qh.publicURL), n)
	if err != nil {
		qh.log.Error("qr_generate_all_failed", err, map[string]any{"tables": n})
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to generate QR codes")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"generated": len(codes),
		"qrCodes":   codes,
	})
}

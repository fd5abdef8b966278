package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"craftopia-api/internal/model"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  pinger
	driver string
}

func NewHealthHandler(store pinger, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver}
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Craftopia is Running"))
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		slog.Warn("health check failed", "store", h.driver, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, model.HealthResponse{Status: "unavailable", Store: h.driver})
		return
	}

	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok", Store: h.driver})
}

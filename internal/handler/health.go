package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tgdrive/internal/httputil"
)

// Pinger checks that a dependency is reachable
type Pinger func(ctx context.Context) error

// HealthHandler reports whether the metadata store answers
type HealthHandler struct {
	ping   Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a health handler
func NewHealthHandler(ping Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

// HealthCheck answers GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		h.logger.Error("health check failed", "error", err)
		httputil.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

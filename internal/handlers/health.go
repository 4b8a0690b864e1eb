package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vidtube/backend/internal/logging"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler responds with service health information. Check, when set,
// probes the relation store.
type HealthHandler struct {
	Check func(ctx context.Context) error
}

// Handle implements GET /healthz.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.Check == nil {
		respondJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.Check(ctx); err != nil {
		logging.FromContext(r.Context()).Warn("health check failed", "error", err)
		respondJSON(r.Context(), w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "unavailable",
		})
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "ok",
	})
}

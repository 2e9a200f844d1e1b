package handlers

import (
	"context"
	"evacuation-planner-service/internal/platform/log"
	"net/http"
	"time"
)

// HealthHandler reports liveness and, when Check is set, store reachability.
type HealthHandler struct {
	Check func(ctx context.Context) error
	Log   log.Logger
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if h.Check != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.Check(ctx); err != nil {
			h.Log.Error(err, "health check failed")
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

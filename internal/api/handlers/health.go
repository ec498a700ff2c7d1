package handlers

import (
	"context"
	"gpx-route-editor/internal/ports"
	"net/http"
	"time"
)

type HealthHandler struct {
	Repo ports.GpxFileRepository
}

// Health reports liveness and whether the store answers.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Repo.Ping(ctx); err != nil {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

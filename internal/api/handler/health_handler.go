package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness probe endpoint.
type HealthHandler struct {
	db             Pinger
	activeChannels int
}

// NewHealthHandler takes the lead store's pinger, nil when leads live in memory.
func NewHealthHandler(db Pinger, activeChannels int) *HealthHandler {
	return &HealthHandler{db: db, activeChannels: activeChannels}
}

// Health handles GET /health
//
// @Summary  Liveness probe
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]any
// @Failure  503  {object}  map[string]any
// @Router   /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":          "ok",
		"store":           "memory",
		"active_channels": h.activeChannels,
	}
	if h.db == nil {
		respondJSON(w, http.StatusOK, body)
		return
	}

	body["store"] = "postgres"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		body["status"] = "degraded"
		body["error"] = "database unreachable"
		respondJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	respondJSON(w, http.StatusOK, body)
}

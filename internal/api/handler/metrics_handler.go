package handler

import (
	"net/http"

	"github.com/joeyedi1/eclandingpage/internal/queue"
)

// MetricsHandler serves a human-readable JSON dispatch queue snapshot.
// Raw Prometheus metrics are available at /metrics via promhttp.
type MetricsHandler struct {
	q *queue.DispatchQueue
}

// NewMetricsHandler takes the dispatch queue, nil in sync mode.
func NewMetricsHandler(q *queue.DispatchQueue) *MetricsHandler {
	return &MetricsHandler{q: q}
}

// GetMetrics handles GET /api/v1/metrics
//
// @Summary  Dispatch queue snapshot
// @Tags     metrics
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /api/v1/metrics [get]
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.q == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"dispatch_mode": "sync",
			"queue_depth":   0,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"dispatch_mode":  "async",
		"queue_depth":    h.q.Depth(),
		"queue_capacity": h.q.Capacity(),
	})
}

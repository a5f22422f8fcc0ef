// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/ibutrack/teamboard/internal/domain/types"
)

// StatsDependencies defines the interface for snapshot summary operations.
type StatsDependencies interface {
	Stats(ctx context.Context) (types.SummaryStats, error)
	Refresh(ctx context.Context) error
}

// StatsHandler handles summary stats and manual refresh requests.
type StatsHandler struct {
	deps StatsDependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps StatsDependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

type statsResponse struct {
	Success bool               `json:"success"`
	Stats   types.SummaryStats `json:"stats"`
}

// HandleStats handles GET /api/stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats, err := h.deps.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no_data", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

// HandleRefresh handles POST /api/refresh requests, forcing a snapshot
// index rebuild.
func (h *StatsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

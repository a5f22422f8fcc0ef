// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/ibutrack/teamboard/internal/domain/types"
)

// ProbationDependencies defines the interface for probation report reads.
type ProbationDependencies interface {
	ProbationReport(ctx context.Context) (types.ProbationReport, error)
}

// ProbationHandler handles probation report requests.
type ProbationHandler struct {
	deps ProbationDependencies
}

// NewProbationHandler creates a new probation handler.
func NewProbationHandler(deps ProbationDependencies) *ProbationHandler {
	return &ProbationHandler{deps: deps}
}

// HandleProbation handles GET /api/probation requests.
func (h *ProbationHandler) HandleProbation(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_probation"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.ProbationReport(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no_data", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

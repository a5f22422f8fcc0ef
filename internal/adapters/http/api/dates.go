// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/ibutrack/teamboard/internal/domain/types"
)

// DateDependencies defines the interface for snapshot date operations.
type DateDependencies interface {
	Dates(ctx context.Context) []string
	RangeDelta(ctx context.Context, startDate, endDate string) (types.RangeDelta, error)
}

// DatesHandler handles snapshot date listing and range delta requests.
type DatesHandler struct {
	deps DateDependencies
}

// NewDatesHandler creates a new dates handler.
func NewDatesHandler(deps DateDependencies) *DatesHandler {
	return &DatesHandler{deps: deps}
}

type datesResponse struct {
	Success bool     `json:"success"`
	Dates   []string `json:"dates"`
	Count   int      `json:"count"`
}

// HandleDates handles GET /api/dates requests.
func (h *DatesHandler) HandleDates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	dates := h.deps.Dates(r.Context())
	writeJSON(w, http.StatusOK, datesResponse{Success: true, Dates: dates, Count: len(dates)})
}

// HandleRange handles GET /api/range?start_date=...&end_date=... requests.
func (h *DatesHandler) HandleRange(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_range"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	start, end := q.Get("start_date"), q.Get("end_date")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	delta, err := h.deps.RangeDelta(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusNotFound, "no_data", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, delta)
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ibutrack/teamboard/internal/domain/trend"
	"github.com/ibutrack/teamboard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Probation operations.
	ProbationReport(ctx context.Context) (types.ProbationReport, error)
	Overrides(ctx context.Context) types.OverrideMap
	SetOverride(ctx context.Context, member string, incoming map[string]*bool, remove bool) (types.Override, error)

	// Trend operations.
	Trends(ctx context.Context, req trend.Request) (types.TrendPayload, error)
	MemberList(ctx context.Context) ([]types.MemberSummary, string, string, error)
	TeamList(ctx context.Context) ([]types.TeamSummary, string, string, error)

	// Snapshot operations.
	Stats(ctx context.Context) (types.SummaryStats, error)
	Dates(ctx context.Context) []string
	RangeDelta(ctx context.Context, startDate, endDate string) (types.RangeDelta, error)
	Refresh(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	probationHandler *ProbationHandler
	overridesHandler *OverridesHandler
	trendsHandler    *TrendsHandler
	datesHandler     *DatesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		probationHandler: NewProbationHandler(deps),
		overridesHandler: NewOverridesHandler(deps),
		trendsHandler:    NewTrendsHandler(deps),
		datesHandler:     NewDatesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/api/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.statsHandler.HandleRefresh, "refresh"))
	mux.HandleFunc("/api/probation", MetricsMiddleware(s.probationHandler.HandleProbation, "probation"))
	mux.HandleFunc("/api/overrides", MetricsMiddleware(s.overridesHandler.HandleOverrides, "overrides"))
	mux.HandleFunc("/api/trends/members", MetricsMiddleware(s.trendsHandler.HandleMembers, "trends_members"))
	mux.HandleFunc("/api/trends/teams", MetricsMiddleware(s.trendsHandler.HandleTeams, "trends_teams"))
	mux.HandleFunc("/api/trends/data", MetricsMiddleware(s.trendsHandler.HandleData, "trends_data"))
	mux.HandleFunc("/api/dates", MetricsMiddleware(s.datesHandler.HandleDates, "dates"))
	mux.HandleFunc("/api/range", MetricsMiddleware(s.datesHandler.HandleRange, "range"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ibutrack/teamboard/internal/domain/timeseries"
	"github.com/ibutrack/teamboard/internal/domain/trend"
	"github.com/ibutrack/teamboard/internal/domain/types"
)

// Request parameter defaults.
const (
	defaultPredictionDays = 30
	maxPredictionDays     = 365
)

// TrendDependencies defines the interface for trend chart operations.
type TrendDependencies interface {
	Trends(ctx context.Context, req trend.Request) (types.TrendPayload, error)
	MemberList(ctx context.Context) ([]types.MemberSummary, string, string, error)
	TeamList(ctx context.Context) ([]types.TeamSummary, string, string, error)
}

// TrendsHandler handles trend chart requests.
type TrendsHandler struct {
	deps TrendDependencies
}

// NewTrendsHandler creates a new trends handler.
func NewTrendsHandler(deps TrendDependencies) *TrendsHandler {
	return &TrendsHandler{deps: deps}
}

type memberListResponse struct {
	Success      bool                  `json:"success"`
	Members      []types.MemberSummary `json:"members"`
	LatestDate   string                `json:"latest_date"`
	EarliestDate string                `json:"earliest_date"`
	MemberCount  int                   `json:"member_count"`
}

// HandleMembers handles GET /api/trends/members requests.
func (h *TrendsHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	const op = "api.trends_members"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	members, earliest, latest, err := h.deps.MemberList(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no_data", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, memberListResponse{
		Success:      true,
		Members:      members,
		LatestDate:   latest,
		EarliestDate: earliest,
		MemberCount:  len(members),
	})
}

type teamListResponse struct {
	Success      bool                `json:"success"`
	Teams        []types.TeamSummary `json:"teams"`
	LatestDate   string              `json:"latest_date"`
	EarliestDate string              `json:"earliest_date"`
	TeamCount    int                 `json:"team_count"`
}

// HandleTeams handles GET /api/trends/teams requests.
func (h *TrendsHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.trends_teams"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	teams, earliest, latest, err := h.deps.TeamList(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no_data", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, teamListResponse{
		Success:      true,
		Teams:        teams,
		LatestDate:   latest,
		EarliestDate: earliest,
		TeamCount:    len(teams),
	})
}

// HandleData handles GET /api/trends/data requests.
func (h *TrendsHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	const op = "api.trends_data"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	req := parseTrendRequest(r)
	payload, err := h.deps.Trends(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, trend.ErrBadStartDate), errors.Is(err, trend.ErrBadEndDate):
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		case errors.Is(err, trend.ErrNoData), errors.Is(err, trend.ErrEmptyRange):
			writeError(w, http.StatusNotFound, "no_data", Wrap(op, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// parseTrendRequest maps query parameters onto a trend request, defaulting
// the way the dashboard front end expects.
func parseTrendRequest(r *http.Request) trend.Request {
	q := r.URL.Query()

	var series []string
	for _, s := range strings.Split(q.Get("series"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			series = append(series, s)
		}
	}

	period, _ := timeseries.ParseGranularity(q.Get("time_period"))

	chartType := q.Get("chart_type")
	switch chartType {
	case trend.ChartBar, trend.ChartCandlestick:
	default:
		chartType = trend.ChartLine
	}

	valueMode := q.Get("value_mode")
	if valueMode != trend.ModeInterval {
		valueMode = trend.ModeCumulative
	}

	method := q.Get("prediction_method")
	if method != trend.ForecastMovingAverage {
		method = trend.ForecastLinear
	}

	days := defaultPredictionDays
	if v, err := strconv.Atoi(q.Get("prediction_days")); err == nil && v > 0 && v <= maxPredictionDays {
		days = v
	}

	return trend.Request{
		Series:           series,
		StartDate:        q.Get("start_date"),
		EndDate:          q.Get("end_date"),
		ChartType:        chartType,
		TimePeriod:       period,
		ValueMode:        valueMode,
		FillLines:        q.Get("fill_lines") != "false",
		TeamMetric:       q.Get("team_metric"),
		Predictions:      strings.EqualFold(q.Get("predictions"), "true"),
		PredictionMethod: method,
		PredictionDays:   days,
	}
}

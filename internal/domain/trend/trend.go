// Package trend turns snapshot history into chart-ready trend payloads:
// series resolution (members, team total, external team rankings), gap
// filling, aggregation, interval production, trace rendering, and forecasts.
package trend

import (
	"strings"
	"time"

	"github.com/ibutrack/teamboard/internal/domain/model"
	"github.com/ibutrack/teamboard/internal/domain/timeseries"
	"github.com/ibutrack/teamboard/internal/domain/types"
)

// Chart types.
const (
	ChartLine        = "line"
	ChartBar         = "bar"
	ChartCandlestick = "candlestick"
)

// Value modes.
const (
	ModeCumulative = "cumulative"
	ModeInterval   = "interval"
)

// Series name for the team-wide cumulative total; requested as "total".
const totalSeriesLabel = "Total Team Points"

// teamSeriesPrefix marks a requested series as a team-rankings series.
const teamSeriesPrefix = "team:"

// Request is a fully parsed trend query.
type Request struct {
	Series           []string
	StartDate        string
	EndDate          string
	ChartType        string
	TimePeriod       timeseries.Granularity
	ValueMode        string
	FillLines        bool
	TeamMetric       string
	Predictions      bool
	PredictionMethod string
	PredictionDays   int
}

// bundle keeps series in request order; map iteration alone would shuffle
// trace order between identical requests.
type bundle struct {
	order  []string
	series map[string]*timeseries.Series
}

func newBundle() *bundle {
	return &bundle{series: make(map[string]*timeseries.Series)}
}

func (b *bundle) add(name string, s *timeseries.Series) {
	if _, ok := b.series[name]; !ok {
		b.order = append(b.order, name)
	}
	b.series[name] = s
}

// ordered returns the series in insertion order, skipping any dropped by a
// later transform.
func (b *bundle) ordered() ([]string, map[string]*timeseries.Series) {
	names := make([]string, 0, len(b.order))
	for _, n := range b.order {
		if _, ok := b.series[n]; ok {
			names = append(names, n)
		}
	}
	return names, b.series
}

// Build assembles the full trend payload for one request. Member snapshots
// must be in ascending date order; team snapshots likewise.
func Build(req Request, memberSnaps []model.MemberSnapshot, teamSnaps []model.TeamSnapshot) (types.TrendPayload, error) {
	if len(memberSnaps) == 0 {
		return types.TrendPayload{}, ErrNoData
	}

	var start, end time.Time
	if req.StartDate != "" {
		t, err := time.Parse(model.DateLayout, req.StartDate)
		if err != nil {
			return types.TrendPayload{}, ErrBadStartDate
		}
		start = t
	}
	if req.EndDate != "" {
		t, err := time.Parse(model.DateLayout, req.EndDate)
		if err != nil {
			return types.TrendPayload{}, ErrBadEndDate
		}
		end = t
	}

	memberSnaps = filterMemberRange(memberSnaps, start, end)
	if len(memberSnaps) == 0 {
		return types.TrendPayload{}, ErrEmptyRange
	}
	teamSnaps = filterTeamRange(teamSnaps, start, end)

	memberNames, teamNames := splitSeries(req.Series)

	b := newBundle()
	wantTotal := false
	var plainMembers []string
	for _, name := range memberNames {
		if name == "total" {
			wantTotal = true
			continue
		}
		plainMembers = append(plainMembers, name)
	}
	if wantTotal {
		b.add(totalSeriesLabel, timeseries.BuildTotal(memberSnaps))
	}
	memberSeries := timeseries.BuildMembers(memberSnaps, plainMembers)
	for _, name := range plainMembers {
		b.add(name, memberSeries[name])
	}
	for _, tname := range teamNames {
		if s := buildTeamSeries(teamSnaps, tname, req.TeamMetric); s.Len() > 0 {
			b.add("Team: "+tname, s)
		}
	}

	for _, s := range b.series {
		s.MarkObserved()
	}

	if req.TimePeriod == timeseries.Daily {
		timeseries.GapFillDaily(b.series)
	} else {
		b.series = timeseries.Aggregate(b.series, req.TimePeriod)
	}

	interval := req.ValueMode == ModeInterval
	if interval {
		timeseries.ApplyInterval(b.series, req.TimePeriod)
		// The first interval point has no baseline and only misleads.
		timeseries.TrimFirstInterval(b.series)
	}

	order, series := b.ordered()
	var traces []types.Trace
	switch req.ChartType {
	case ChartCandlestick:
		traces = candlestickTraces(order, series, interval)
	case ChartBar:
		traces = barTraces(order, series, interval)
	default:
		traces = lineTraces(order, series, interval, req.FillLines)
	}

	if req.Predictions && req.PredictionDays > 0 {
		traces = addForecastTraces(traces, req.PredictionMethod, req.PredictionDays)
	}

	dataPoints := 0
	for _, t := range traces {
		if (t.Type == "scatter" || t.Type == "bar") && len(t.X) > dataPoints {
			dataPoints = len(t.X)
		}
	}

	return types.TrendPayload{
		Success:    true,
		Data:       traces,
		Layout:     chartLayout(req.ChartType, req.ValueMode),
		Config:     chartConfig(),
		DataPoints: dataPoints,
		Metadata: types.TrendMetadata{
			ChartType:           req.ChartType,
			TimePeriod:          string(req.TimePeriod),
			ValueMode:           req.ValueMode,
			SeriesRequested:     req.Series,
			MemberSeries:        memberNames,
			TeamSeriesRequested: teamNames,
			TeamMetric:          req.TeamMetric,
			FillLines:           req.FillLines,
			DateRange: map[string]string{
				"start": memberSnaps[0].Date.Format(model.DateLayout),
				"end":   memberSnaps[len(memberSnaps)-1].Date.Format(model.DateLayout),
			},
		},
	}, nil
}

// splitSeries separates team-prefixed series from member series. The "total"
// pseudo-member stays in the member list.
func splitSeries(series []string) (members, teams []string) {
	for _, s := range series {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(s), teamSeriesPrefix) {
			teams = append(teams, strings.TrimSpace(s[len(teamSeriesPrefix):]))
			continue
		}
		members = append(members, s)
	}
	return members, teams
}

func filterMemberRange(snaps []model.MemberSnapshot, start, end time.Time) []model.MemberSnapshot {
	out := snaps[:0:0]
	for _, s := range snaps {
		d := model.Day(s.Date)
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func filterTeamRange(snaps []model.TeamSnapshot, start, end time.Time) []model.TeamSnapshot {
	out := snaps[:0:0]
	for _, s := range snaps {
		d := model.Day(s.Date)
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out
}

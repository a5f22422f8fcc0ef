// Package types contains common types used across the application
package types

// MilestoneResult is the evaluation of one probation milestone.
// Passed is tri-state: nil means undetermined, distinct from false.
type MilestoneResult struct {
	Target            int64  `json:"target"`
	PointsAtDeadline  *int64 `json:"points_at_deadline"`
	HasHistoricalData bool   `json:"has_historical_data"`
	Passed            *bool  `json:"passed"`
	Deadline          string `json:"deadline"`
	RemainingPoints   int64  `json:"remaining_points"`
	DaysLeft          int    `json:"days_left"`
}

// MilestoneSet groups the three probation milestone evaluations.
type MilestoneSet struct {
	Week1  MilestoneResult `json:"week_1"`
	Month1 MilestoneResult `json:"month_1"`
	Month3 MilestoneResult `json:"month_3"`
}

// Override carries admin milestone overrides for one member. A nil field
// means "no override" and defers to the computed evaluation; ternary
// semantics live in key presence, never in a stored null.
type Override struct {
	Week1  *bool `json:"week_1,omitempty"`
	Month1 *bool `json:"month_1,omitempty"`
	Month3 *bool `json:"month_3,omitempty"`
}

// Empty reports whether no milestone key is set.
func (o Override) Empty() bool {
	return o.Week1 == nil && o.Month1 == nil && o.Month3 == nil
}

// OverrideMap keys member name to that member's overrides.
type OverrideMap map[string]Override

// CompliancePeriod is one fixed 90-day post-probation window.
type CompliancePeriod struct {
	PeriodNumber    int    `json:"period_number"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	PointsAtStart   *int64 `json:"points_at_start"`
	PointsAtEnd     *int64 `json:"points_at_end"`
	PointsEarned    *int64 `json:"points_earned"`
	TargetPoints    int64  `json:"target_points"`
	Status          string `json:"status"`
	StartDateFound  bool   `json:"start_date_found"`
	EndDateFound    bool   `json:"end_date_found"`
	IsCurrentPeriod bool   `json:"is_current_period"`

	// Projection guidance for the open window only; zero otherwise.
	DaysElapsed     int     `json:"days_elapsed,omitempty"`
	DaysRemaining   int     `json:"days_remaining,omitempty"`
	DailyRate       float64 `json:"daily_rate,omitempty"`
	ProjectedTotal  float64 `json:"projected_total,omitempty"`
	RemainingNeeded int64   `json:"remaining_needed,omitempty"`
	DailyNeeded     float64 `json:"daily_needed,omitempty"`
}

// MemberStatus is the full probation picture for one member.
type MemberStatus struct {
	Name                 string             `json:"name"`
	JoinedDate           string             `json:"joined_date"`
	JoinedDateParsed     string             `json:"joined_date_parsed"`
	DaysSinceJoined      int                `json:"days_since_joined"`
	CurrentPoints        int64              `json:"current_points"`
	ProbationStatus      string             `json:"probation_status"`
	PostProbationStatus  string             `json:"post_probation_status,omitempty"`
	PostProbationPeriods []CompliancePeriod `json:"post_probation_periods"`
	Overrides            Override           `json:"overrides"`
	Milestones           MilestoneSet       `json:"milestones"`
}

// ProbationReport is the payload served to the presentation layer.
type ProbationReport struct {
	Success bool           `json:"success"`
	Members []MemberStatus `json:"members"`
}

// TraceLine styles a plotted line.
type TraceLine struct {
	Color     string  `json:"color,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Shape     string  `json:"shape,omitempty"`
	Smoothing float64 `json:"smoothing,omitempty"`
	Dash      string  `json:"dash,omitempty"`
}

// TraceMarker styles data-point markers.
type TraceMarker struct {
	Size  float64         `json:"size,omitempty"`
	Color string          `json:"color,omitempty"`
	Line  *TraceEdgeWidth `json:"line,omitempty"`
}

// TraceEdgeWidth is a marker edge width; zero is meaningful and serialized.
type TraceEdgeWidth struct {
	Width float64 `json:"width"`
}

// TraceBand colors the increasing/decreasing halves of a candlestick.
type TraceBand struct {
	Line TraceLineColor `json:"line"`
}

// TraceLineColor is a bare line color.
type TraceLineColor struct {
	Color string `json:"color"`
}

// Trace is one renderable chart series in a trend payload, shaped for a
// plotly-compatible front end. CustomData rows carry mixed numeric and
// string hover values, hence the any-typed triple.
type Trace struct {
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	Mode          string         `json:"mode,omitempty"`
	X             []string       `json:"x"`
	Y             []float64      `json:"y,omitempty"`
	Open          []float64      `json:"open,omitempty"`
	High          []float64      `json:"high,omitempty"`
	Low           []float64      `json:"low,omitempty"`
	Close         []float64      `json:"close,omitempty"`
	Base          []float64      `json:"base,omitempty"`
	Line          *TraceLine     `json:"line,omitempty"`
	Marker        *TraceMarker   `json:"marker,omitempty"`
	Increasing    *TraceBand     `json:"increasing,omitempty"`
	Decreasing    *TraceBand     `json:"decreasing,omitempty"`
	WhiskerWidth  float64        `json:"whiskerwidth,omitempty"`
	Fill          string         `json:"fill,omitempty"`
	FillColor     string         `json:"fillcolor,omitempty"`
	Opacity       float64        `json:"opacity,omitempty"`
	Width         *float64       `json:"width,omitempty"`
	CustomData    [][3]any       `json:"customdata,omitempty"`
	HoverTemplate string         `json:"hovertemplate,omitempty"`
	HoverInfo     string         `json:"hoverinfo,omitempty"`
	HoverLabel    map[string]any `json:"hoverlabel,omitempty"`
	Meta          string         `json:"meta,omitempty"`
	ShowLegend    *bool          `json:"showlegend,omitempty"`
	OffsetGroup   string         `json:"offsetgroup,omitempty"`
	LegendGroup   string         `json:"legendgroup,omitempty"`
}

// TrendMetadata echoes the resolved request back to the caller.
type TrendMetadata struct {
	ChartType           string            `json:"chart_type"`
	TimePeriod          string            `json:"time_period"`
	ValueMode           string            `json:"value_mode"`
	SeriesRequested     []string          `json:"series_requested"`
	MemberSeries        []string          `json:"member_series_resolved"`
	TeamSeriesRequested []string          `json:"team_series_requested"`
	TeamMetric          string            `json:"team_metric"`
	FillLines           bool              `json:"fill_lines"`
	DateRange           map[string]string `json:"date_range"`
}

// TrendPayload is the trend-chart response shape.
type TrendPayload struct {
	Success    bool           `json:"success"`
	Data       []Trace        `json:"data"`
	Layout     map[string]any `json:"layout"`
	Config     map[string]any `json:"config"`
	DataPoints int            `json:"data_points"`
	Metadata   TrendMetadata  `json:"metadata"`
}

// MemberSummary is a lightweight listing entry for series pickers.
type MemberSummary struct {
	Name          string `json:"name"`
	CurrentPoints int64  `json:"current_points"`
}

// TeamSummary is a lightweight listing entry for team pickers.
type TeamSummary struct {
	Name        string `json:"name"`
	TotalPoints int64  `json:"total_points"`
	Members     int64  `json:"members"`
	Days90      int64  `json:"90_days"`
	Days180     int64  `json:"180_days"`
}

// RangeDelta is the per-member point gain between two exact snapshot dates.
type RangeDelta struct {
	Success   bool              `json:"success"`
	Members   []string          `json:"members"`
	Deltas    []int64           `json:"deltas"`
	Total     int64             `json:"total"`
	Active    int               `json:"active_members"`
	DateRange map[string]string `json:"date_range"`
}

// Performer is one top-gainer row in the summary stats.
type Performer struct {
	Name   string `json:"name"`
	Points int64  `json:"points"`
	Gain   int64  `json:"gain"`
}

// SummaryStats describes the latest snapshot at a glance.
type SummaryStats struct {
	TotalPoints       int64       `json:"total_points"`
	ActiveMembers     int         `json:"active_members"`
	TopPerformers     []Performer `json:"top_performers"`
	TotalPointsGain   int64       `json:"total_points_gain"`
	ActiveMembersGain int         `json:"active_members_gain"`
}

// Package model contains domain models passed between layers.
package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical wire format for snapshot dates.
const DateLayout = "2006-01-02"

// MemberRow is one member's line in a member-points snapshot.
type MemberRow struct {
	Name       string // display name, case-sensitive key across snapshots
	Points     int64  // cumulative points at the snapshot date
	Rank       int    // optional; 0 when absent
	JoinedDate string // raw joined-date string, e.g. "December 19th, 2023"
}

// TeamRow is one team's line in a team-rankings snapshot.
type TeamRow struct {
	Name        string
	TotalPoints int64
	Members     int64
	Days90      int64
	Days180     int64
	Rank        int
}

// MemberSnapshot is one dated export of member point totals.
type MemberSnapshot struct {
	Date time.Time
	Rows []MemberRow
}

// TeamSnapshot is one dated export of team rankings.
type TeamSnapshot struct {
	Date time.Time
	Rows []TeamRow
}

// Row lookup by exact member name; first match wins.
func (s MemberSnapshot) Find(name string) (MemberRow, bool) {
	for _, r := range s.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return MemberRow{}, false
}

// TotalPoints sums the cumulative points of every row.
func (s MemberSnapshot) TotalPoints() int64 {
	var total int64
	for _, r := range s.Rows {
		total += r.Points
	}
	return total
}

// Milestone is a (day-offset, point-target) pair a new member must reach.
type Milestone struct {
	Key       string
	DayOffset int
	Target    int64
}

// Production milestone definitions. The deadline for a member is
// joined date + DayOffset days.
var (
	MilestoneWeek1  = Milestone{Key: "week_1", DayOffset: 7, Target: 250_000}
	MilestoneMonth1 = Milestone{Key: "month_1", DayOffset: 30, Target: 1_000_000}
	MilestoneMonth3 = Milestone{Key: "month_3", DayOffset: 90, Target: 3_000_000}
)

// Milestones in evaluation order.
func Milestones() [3]Milestone {
	return [3]Milestone{MilestoneWeek1, MilestoneMonth1, MilestoneMonth3}
}

// ComplianceTarget is the points a post-probation member must produce per
// 90-day window.
const ComplianceTarget int64 = 3_000_000

// ComplianceWindowDays is the length of a post-probation window.
const ComplianceWindowDays = 90

var ordinalSuffix = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

// ParseJoinedDate parses member-info join dates like "December 19th, 2023".
// Ordinal suffixes are stripped before parsing. Surrounding quotes from CSV
// round-trips are tolerated.
func ParseJoinedDate(raw string) (time.Time, bool) {
	cleaned := strings.Trim(strings.TrimSpace(raw), `"`)
	cleaned = ordinalSuffix.ReplaceAllString(cleaned, "$1")
	t, err := time.Parse("January 2, 2006", cleaned)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Coercion outcome for a raw cell. Missing and Malformed both default the
// value to 0 but callers can tell them apart from a genuine zero.
type Coercion int

const (
	CoercedValid Coercion = iota
	CoercedMissing
	CoercedMalformed
)

// CoerceInt parses a numeric cell. Empty input is Missing; unparsable input
// is Malformed; both yield 0. Thousands separators and a trailing ".0" from
// spreadsheet exports are tolerated.
func CoerceInt(raw string) (int64, Coercion) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, CoercedMissing
	}
	s = strings.ReplaceAll(s, ",", "")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), CoercedValid
		}
		return 0, CoercedMalformed
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, CoercedMalformed
	}
	return n, CoercedValid
}

// Day truncates a time to midnight UTC so date arithmetic stays exact.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

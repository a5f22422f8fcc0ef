// Package timeseries reconstructs per-entity point series from dated
// snapshots: scanning, daily gap-filling, bucket aggregation, and the
// cumulative-to-interval (production) transform.
package timeseries

import (
	"time"

	"github.com/ibutrack/teamboard/internal/domain/model"
)

// Series holds the parallel ordered sequences for one charted entity.
// All populated slices share length and index-to-date correspondence.
type Series struct {
	Dates       []string
	Points      []int64
	DailyChange []int64
	Rank        []int

	// Set by Aggregate.
	Open  []int64
	High  []int64
	Low   []int64
	Close []int64

	// Set by ApplyInterval.
	Produced []int64

	// Dates that came from a real snapshot, recorded before gap-filling.
	// The interval transform distributes deltas between these anchors.
	Observed map[string]bool
}

// Len returns the number of data points in the series.
func (s *Series) Len() int { return len(s.Dates) }

// Append adds one observation. The delta against the previous point is
// derived internally; the first observation always records a zero change.
// clampDelta forces negative deltas to zero (team feeds occasionally shrink
// when a team is re-scraped mid-update).
func (s *Series) Append(date string, points int64, rank int, clampDelta bool) {
	change := int64(0)
	if n := len(s.Points); n > 0 {
		change = points - s.Points[n-1]
		if clampDelta && change < 0 {
			change = 0
		}
	}
	s.Dates = append(s.Dates, date)
	s.Points = append(s.Points, points)
	s.DailyChange = append(s.DailyChange, change)
	s.Rank = append(s.Rank, rank)
}

// MarkObserved records the current date set as the real observations.
// Call once, after building and before gap-filling.
func (s *Series) MarkObserved() {
	s.Observed = make(map[string]bool, len(s.Dates))
	for _, d := range s.Dates {
		s.Observed[d] = true
	}
}

// BuildMembers scans snapshots in ascending date order and assembles one
// series per requested member name. A member absent from a snapshot counts
// as 0 points / rank 0 for that date, never as absent-from-series.
func BuildMembers(snaps []model.MemberSnapshot, names []string) map[string]*Series {
	out := make(map[string]*Series, len(names))
	for _, name := range names {
		out[name] = &Series{}
	}
	for _, snap := range snaps {
		date := snap.Date.Format(model.DateLayout)
		for _, name := range names {
			var points int64
			var rank int
			if row, ok := snap.Find(name); ok {
				points = row.Points
				rank = row.Rank
			}
			out[name].Append(date, points, rank, false)
		}
	}
	return out
}

// BuildTotal assembles the team-wide cumulative series (sum of all member
// points per snapshot). Rank is zero-filled so aggregation stays uniform.
func BuildTotal(snaps []model.MemberSnapshot) *Series {
	s := &Series{}
	for _, snap := range snaps {
		s.Append(snap.Date.Format(model.DateLayout), snap.TotalPoints(), 0, false)
	}
	return s
}

// GapFillDaily forward-fills every series onto the full consecutive-day range
// spanning the earliest to latest date across all series. Filled days carry
// the last known cumulative value with a zero daily change; days before a
// series' first real observation are omitted, not back-filled. The operation
// is idempotent.
func GapFillDaily(series map[string]*Series) {
	var minDay, maxDay time.Time
	seen := false
	for _, s := range series {
		for _, d := range s.Dates {
			t, err := time.Parse(model.DateLayout, d)
			if err != nil {
				continue
			}
			if !seen || t.Before(minDay) {
				minDay = t
			}
			if !seen || t.After(maxDay) {
				maxDay = t
			}
			seen = true
		}
	}
	if !seen {
		return
	}

	var fullDates []string
	for cur := minDay; !cur.After(maxDay); cur = cur.AddDate(0, 0, 1) {
		fullDates = append(fullDates, cur.Format(model.DateLayout))
	}

	for _, s := range series {
		if len(s.Dates) == 0 {
			continue
		}
		index := make(map[string]int, len(s.Dates))
		for i, d := range s.Dates {
			index[d] = i
		}
		var (
			dates   []string
			points  []int64
			changes []int64
			ranks   []int
			started bool
		)
		var lastPoints int64
		var lastRank int
		for _, d := range fullDates {
			if i, ok := index[d]; ok {
				started = true
				lastPoints = s.Points[i]
				lastRank = s.Rank[i]
				dates = append(dates, d)
				points = append(points, s.Points[i])
				changes = append(changes, s.DailyChange[i])
				ranks = append(ranks, s.Rank[i])
				continue
			}
			if !started {
				continue
			}
			dates = append(dates, d)
			points = append(points, lastPoints)
			changes = append(changes, 0)
			ranks = append(ranks, lastRank)
		}
		if len(dates) > len(s.Dates) {
			s.Dates = dates
			s.Points = points
			s.DailyChange = changes
			s.Rank = ranks
		}
	}
}

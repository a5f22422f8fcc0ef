package timeseries

import (
	"time"

	"github.com/ibutrack/teamboard/internal/domain/model"
)

// Granularity selects how a daily series is partitioned into buckets.
type Granularity string

const (
	Daily    Granularity = "daily"
	Weekly   Granularity = "weekly"
	Monthly  Granularity = "monthly"
	Yearly   Granularity = "yearly"
	Fixed90  Granularity = "90_days"
	Fixed180 Granularity = "180_days"
)

// ParseGranularity maps a request parameter to a Granularity.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case Daily, Weekly, Monthly, Yearly, Fixed90, Fixed180:
		return Granularity(s), true
	}
	return Daily, false
}

// windowDays returns the fixed bucket length, or 0 for calendar buckets.
func (g Granularity) windowDays() int {
	switch g {
	case Fixed90:
		return 90
	case Fixed180:
		return 180
	}
	return 0
}

// bucketKey returns the bucket label a date falls into. Weekly buckets key on
// the Monday of the date's week; monthly and yearly on the first of the
// month/year. Fixed-length windows are aligned to the anchor date.
func (g Granularity) bucketKey(t time.Time, anchor time.Time) string {
	if w := g.windowDays(); w > 0 {
		idx := int(t.Sub(anchor).Hours()/24) / w
		return anchor.AddDate(0, 0, idx*w).Format(model.DateLayout)
	}
	switch g {
	case Weekly:
		monday := t.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
		return monday.Format(model.DateLayout)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)
	case Yearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)
	}
	return t.Format(model.DateLayout)
}

// Aggregate partitions each series into buckets: open = first value in the
// bucket, close = last, high/low = max/min, points = close, daily_change =
// sum of per-day deltas, rank = integer-truncated average. Fixed-length
// windows are anchored at the earliest date across ALL series so that every
// series shares bucket boundaries regardless of its own first observation.
// Series with zero dates are omitted from the result.
func Aggregate(series map[string]*Series, g Granularity) map[string]*Series {
	if g == Daily {
		return series
	}

	var anchor time.Time
	haveAnchor := false
	if g.windowDays() > 0 {
		for _, s := range series {
			for _, d := range s.Dates {
				t, err := time.Parse(model.DateLayout, d)
				if err != nil {
					continue
				}
				if !haveAnchor || t.Before(anchor) {
					anchor = t
					haveAnchor = true
				}
			}
		}
		if !haveAnchor {
			return map[string]*Series{}
		}
	}

	out := make(map[string]*Series, len(series))
	for name, s := range series {
		if len(s.Dates) == 0 {
			continue
		}
		agg := &Series{}
		var bucket []int
		currentKey := ""
		flush := func() {
			if len(bucket) == 0 {
				return
			}
			open := s.Points[bucket[0]]
			closeVal := s.Points[bucket[len(bucket)-1]]
			high, low := open, open
			var changeSum, rankSum int64
			for _, i := range bucket {
				p := s.Points[i]
				if p > high {
					high = p
				}
				if p < low {
					low = p
				}
				changeSum += s.DailyChange[i]
				rankSum += int64(s.Rank[i])
			}
			agg.Dates = append(agg.Dates, currentKey)
			agg.Points = append(agg.Points, closeVal)
			agg.DailyChange = append(agg.DailyChange, changeSum)
			agg.Rank = append(agg.Rank, int(rankSum/int64(len(bucket))))
			agg.Open = append(agg.Open, open)
			agg.High = append(agg.High, high)
			agg.Low = append(agg.Low, low)
			agg.Close = append(agg.Close, closeVal)
			bucket = bucket[:0]
		}
		for i, d := range s.Dates {
			t, err := time.Parse(model.DateLayout, d)
			if err != nil {
				continue
			}
			key := g.bucketKey(t, anchor)
			if key != currentKey {
				flush()
				currentKey = key
			}
			bucket = append(bucket, i)
		}
		flush()
		out[name] = agg
	}
	return out
}

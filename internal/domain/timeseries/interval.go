package timeseries

// ApplyInterval derives each series' Produced slice: the points gained within
// that time slice, as opposed to the cumulative total.
//
// Daily granularity distributes the delta between two consecutive observed
// dates evenly over the calendar days spanned (integer division; the
// remainder lands on the final day of the span), so gap-filled days carry a
// believable share of the production. The first observed point of a series
// always produces 0 since there is no prior baseline.
//
// Aggregated granularities use the simple successive difference between
// bucket closes, first bucket 0.
func ApplyInterval(series map[string]*Series, g Granularity) {
	for _, s := range series {
		s.Produced = make([]int64, len(s.Points))
		if len(s.Points) == 0 {
			continue
		}
		if g == Daily {
			applyDailyInterval(s)
			continue
		}
		prev := int64(-1)
		for i, p := range s.Points {
			if i == 0 {
				s.Produced[i] = 0
			} else {
				d := p - prev
				if d < 0 {
					d = 0
				}
				s.Produced[i] = d
			}
			prev = p
		}
	}
}

func applyDailyInterval(s *Series) {
	lastIdx := -1
	var lastPoints int64
	for idx, d := range s.Dates {
		if !s.Observed[d] {
			continue
		}
		if lastIdx < 0 {
			s.Produced[idx] = 0
			lastIdx = idx
			lastPoints = s.Points[idx]
			continue
		}
		gapDays := idx - lastIdx
		delta := s.Points[idx] - lastPoints
		if delta < 0 {
			delta = 0
		}
		if gapDays > 0 {
			perDay := delta / int64(gapDays)
			remainder := delta - perDay*int64(gapDays)
			for j := 1; j <= gapDays; j++ {
				v := perDay
				if j == gapDays {
					v += remainder
				}
				s.Produced[lastIdx+j] = v
			}
		}
		lastIdx = idx
		lastPoints = s.Points[idx]
	}
}

// TrimFirstInterval drops the very first interval data point of every series
// that has more than one, removing the misleading "first bar" artifact when a
// series' history starts mid-range.
func TrimFirstInterval(series map[string]*Series) {
	for _, s := range series {
		if len(s.Dates) <= 1 {
			continue
		}
		s.Dates = s.Dates[1:]
		s.Points = s.Points[1:]
		s.DailyChange = s.DailyChange[1:]
		if len(s.Rank) > 1 {
			s.Rank = s.Rank[1:]
		}
		if len(s.Produced) > 1 {
			s.Produced = s.Produced[1:]
		}
		if len(s.Open) > 1 {
			s.Open = s.Open[1:]
			s.High = s.High[1:]
			s.Low = s.Low[1:]
			s.Close = s.Close[1:]
		}
	}
}

package trend

import (
	"fmt"
	"time"

	"github.com/ibutrack/teamboard/internal/domain/model"
	"github.com/ibutrack/teamboard/internal/domain/timeseries"
	"github.com/ibutrack/teamboard/internal/domain/types"
)

func toFloats(vals []int64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out
}

func yValues(s *timeseries.Series, interval bool) []float64 {
	if interval && s.Produced != nil {
		return toFloats(s.Produced)
	}
	return toFloats(s.Points)
}

// lineTraces renders spline line traces, optionally area-filled to zero.
func lineTraces(order []string, series map[string]*timeseries.Series, interval, fillEnabled bool) []types.Trace {
	label := "Points"
	if interval {
		label = "Produced"
	}
	var out []types.Trace
	for _, name := range order {
		s := series[name]
		if s.Len() == 0 {
			continue
		}
		color := NameColor(name)
		t := types.Trace{
			Name: name,
			Type: "scatter",
			Mode: "lines+markers",
			X:    append([]string(nil), s.Dates...),
			Y:    yValues(s, interval),
			Line: &types.TraceLine{
				Color:     color,
				Width:     2.4,
				Shape:     "spline",
				Smoothing: 0.65,
			},
			Marker: &types.TraceMarker{
				Size:  5,
				Color: color,
				Line:  &types.TraceEdgeWidth{Width: 0},
			},
			HoverTemplate: fmt.Sprintf("<b>%s</b><br>Date: %%{x}<br>%s: %%{y:,}<extra></extra>", name, label),
		}
		if fillEnabled {
			t.Fill = "tozeroy"
			// 0x30 alpha suffix keeps the fill subtle under overlapping series.
			t.FillColor = color + "30"
		}
		out = append(out, t)
	}
	return out
}

// barTraces renders one bar trace per series; interval mode plots production
// per period, cumulative mode the running total.
func barTraces(order []string, series map[string]*timeseries.Series, interval bool) []types.Trace {
	label := "Points"
	if interval {
		label = "Produced"
	}
	var out []types.Trace
	for _, name := range order {
		s := series[name]
		if s.Len() == 0 {
			continue
		}
		color := NameColor(name)
		out = append(out, types.Trace{
			Name: name,
			Type: "bar",
			X:    append([]string(nil), s.Dates...),
			Y:    yValues(s, interval),
			Marker: &types.TraceMarker{
				Color: color,
				Line:  &types.TraceEdgeWidth{Width: 0},
			},
			Opacity:       0.9,
			HoverTemplate: fmt.Sprintf("<b>%s</b><br>Date: %%{x}<br>%s: %%{y:,}<extra></extra>", name, label),
		})
	}
	return out
}

// candlestickTraces renders OHLC candles. Cumulative mode uses the stored
// per-bucket OHLC (or flat candles at the cumulative level for daily data).
// Interval mode synthesizes candles that compare production period over
// period: open = previous period's production, close = this period's, with a
// transparent overlay bar so flat candles stay hoverable.
func candlestickTraces(order []string, series map[string]*timeseries.Series, interval bool) []types.Trace {
	var out []types.Trace
	for _, name := range order {
		s := series[name]
		if s.Len() == 0 {
			continue
		}
		base := NameColor(name)
		t := types.Trace{
			Name:         name,
			Type:         "candlestick",
			X:            append([]string(nil), s.Dates...),
			Increasing:   &types.TraceBand{Line: types.TraceLineColor{Color: blendWith(base, 34, 197, 94, 0.55)}},
			Decreasing:   &types.TraceBand{Line: types.TraceLineColor{Color: blendWith(base, 248, 113, 113, 0.55)}},
			WhiskerWidth: 0.5,
			Meta:         name,
		}
		if interval && s.Produced != nil {
			open, high, low, closeVals, custom := intervalCandles(s.Produced)
			t.Open, t.High, t.Low, t.Close = open, high, low, closeVals
			t.CustomData = custom
			t.HoverTemplate = "<b>%{meta}</b><br>Period: %{x}<br>Produced: %{customdata[0]:,}<br>Δ: %{customdata[1]:,} (%{customdata[2]})<extra></extra>"
			// The default OHLC hover panel would shadow the template.
			t.HoverInfo = "skip"
			out = append(out, overlayBar(name, t.X, high, low, custom))
		} else {
			t.Open = ohlcOrPoints(s.Open, s.Points)
			t.High = ohlcOrPoints(s.High, s.Points)
			t.Low = ohlcOrPoints(s.Low, s.Points)
			t.Close = ohlcOrPoints(s.Close, s.Points)
			t.HoverTemplate = "<b>%{meta}</b><br>Period: %{x}<br>O: %{open:,}<br>H: %{high:,}<br>L: %{low:,}<br>C: %{close:,}<extra></extra>"
		}
		out = append(out, t)
	}
	return out
}

func ohlcOrPoints(vals, points []int64) []float64 {
	if len(vals) > 0 {
		return toFloats(vals)
	}
	return toFloats(points)
}

// intervalCandles synthesizes OHLC from the production sequence: each candle
// opens at the previous period's production and closes at its own, so candle
// direction reads as "producing more or less than last period". CustomData
// rows are [produced, change, percent-change label].
func intervalCandles(produced []int64) (open, high, low, closeVals []float64, custom [][3]any) {
	n := len(produced)
	open = make([]float64, n)
	high = make([]float64, n)
	low = make([]float64, n)
	closeVals = make([]float64, n)
	custom = make([][3]any, n)
	for i, p := range produced {
		var prev int64
		if i > 0 {
			prev = produced[i-1]
		}
		o, c := float64(prev), float64(p)
		open[i], closeVals[i] = o, c
		if o > c {
			high[i], low[i] = o, c
		} else {
			high[i], low[i] = c, o
		}
		change := p - prev
		pct := "0.0%"
		if prev <= 0 {
			if p > 0 {
				pct = "—"
			}
		} else {
			pct = fmt.Sprintf("%.1f%%", float64(change)/float64(prev)*100)
		}
		custom[i] = [3]any{p, change, pct}
	}
	return open, high, low, closeVals, custom
}

// overlayBar builds a near-invisible bar spanning each candle so hover works
// anywhere over the candle, including zero-height (flat) ones, which get a
// small widened band instead of an unhoverable line.
func overlayBar(name string, dates []string, high, low []float64, custom [][3]any) types.Trace {
	overallLow, overallHigh := low[0], high[0]
	for i := range high {
		if low[i] < overallLow {
			overallLow = low[i]
		}
		if high[i] > overallHigh {
			overallHigh = high[i]
		}
	}
	overallRange := overallHigh - overallLow
	if overallRange <= 0 {
		overallRange = 1
	}
	minSpan := overallRange * 0.01
	if minSpan < 0.5 {
		minSpan = 0.5
	}

	bases := make([]float64, len(high))
	heights := make([]float64, len(high))
	for i := range high {
		span := high[i] - low[i]
		if span <= 0 {
			lower := low[i] - minSpan/2
			if lower < 0 {
				lower = 0
			}
			bases[i] = lower
			heights[i] = minSpan
			continue
		}
		extra := span * 0.01
		lower := low[i] - extra/2
		if lower < 0 {
			lower = 0
		}
		bases[i] = lower
		heights[i] = span + extra
	}

	hide := false
	bar := types.Trace{
		Name:          name,
		Type:          "bar",
		X:             append([]string(nil), dates...),
		Y:             heights,
		Base:          bases,
		Marker:        &types.TraceMarker{Color: "rgba(0,0,0,0)", Line: &types.TraceEdgeWidth{Width: 0}},
		Opacity:       0.01,
		CustomData:    custom,
		HoverTemplate: "<b>%{meta}</b><br>Period: %{x}<br>Produced: %{customdata[0]:,}<br>Δ: %{customdata[1]:,} (%{customdata[2]})<extra></extra>",
		Meta:          name,
		ShowLegend:    &hide,
		HoverLabel:    map[string]any{"namelength": -1},
		OffsetGroup:   "ovl_" + name,
		LegendGroup:   "ovl_" + name,
	}
	if w, ok := candleWidthMillis(dates); ok {
		bar.Width = &w
	}
	return bar
}

// candleWidthMillis approximates the candle body width on a date axis as 60%
// of the smallest gap between consecutive dates, in milliseconds.
func candleWidthMillis(dates []string) (float64, bool) {
	if len(dates) < 2 {
		return 0, false
	}
	minGap := 0.0
	var prev time.Time
	havePrev := false
	for _, d := range dates {
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			continue
		}
		if havePrev {
			gap := t.Sub(prev).Seconds() * 1000
			if minGap == 0 || gap < minGap {
				minGap = gap
			}
		}
		prev = t
		havePrev = true
	}
	if minGap <= 0 {
		return 0, false
	}
	return minGap * 0.6, true
}

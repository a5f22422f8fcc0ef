package trend

import (
	"time"

	"github.com/ibutrack/teamboard/internal/domain/model"
	"github.com/ibutrack/teamboard/internal/domain/types"
)

// Forecast methods.
const (
	ForecastLinear        = "linear"
	ForecastMovingAverage = "moving_average"
)

// addForecastTraces appends one dashed forecast trace per eligible input
// trace. Candlestick traces forecast their close values; bars and lines their
// y values. Series shorter than three points are skipped, and forecasts are
// clamped at zero since point totals cannot go negative.
func addForecastTraces(traces []types.Trace, method string, days int) []types.Trace {
	dash := "dash"
	if method == ForecastMovingAverage {
		dash = "dot"
	}
	out := traces
	for _, t := range traces {
		ys := t.Y
		if t.Type == "candlestick" {
			ys = t.Close
		}
		if len(ys) < 3 || len(t.X) != len(ys) {
			continue
		}
		offsets, lastDate, ok := dayOffsets(t.X)
		if !ok {
			continue
		}
		predict, ok := fitPredictor(method, offsets, ys)
		if !ok {
			continue
		}

		futureX := make([]string, 0, days)
		futureY := make([]float64, 0, days)
		lastOffset := offsets[len(offsets)-1]
		for i := 1; i <= days; i++ {
			futureX = append(futureX, lastDate.AddDate(0, 0, i).Format(model.DateLayout))
			y := predict(lastOffset + float64(i))
			if y < 0 {
				y = 0
			}
			futureY = append(futureY, y)
		}

		color := "#999999"
		if t.Line != nil && t.Line.Color != "" {
			color = t.Line.Color
		}
		out = append(out, types.Trace{
			Name:          t.Name + " (Prediction)",
			Type:          "scatter",
			Mode:          "lines",
			X:             futureX,
			Y:             futureY,
			Line:          &types.TraceLine{Color: color, Dash: dash},
			Opacity:       0.7,
			HoverTemplate: "<b>%{meta}</b><br>Date: %{x}<br>Predicted Points: %{y:.0f}<extra></extra>",
			Meta:          t.Name,
		})
	}
	return out
}

// dayOffsets converts the x dates to day counts from the first date.
func dayOffsets(dates []string) ([]float64, time.Time, bool) {
	parsed := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			return nil, time.Time{}, false
		}
		parsed = append(parsed, t)
	}
	offsets := make([]float64, len(parsed))
	for i, t := range parsed {
		offsets[i] = t.Sub(parsed[0]).Hours() / 24
	}
	return offsets, parsed[len(parsed)-1], true
}

// fitPredictor returns a function of absolute day offset. Linear fits an
// ordinary least-squares line; moving average extends the mean of the last
// few changes (window 5, or half the series when shorter) from the last
// observed value.
func fitPredictor(method string, xs, ys []float64) (func(float64) float64, bool) {
	if method != ForecastMovingAverage {
		n := float64(len(xs))
		var sumX, sumY, sumXX, sumXY float64
		for i := range xs {
			sumX += xs[i]
			sumY += ys[i]
			sumXX += xs[i] * xs[i]
			sumXY += xs[i] * ys[i]
		}
		denom := n*sumXX - sumX*sumX
		if denom == 0 {
			return nil, false
		}
		slope := (n*sumXY - sumX*sumY) / denom
		intercept := (sumY - slope*sumX) / n
		return func(x float64) float64 { return intercept + slope*x }, true
	}

	window := 5
	if len(ys) < 5 {
		window = len(ys) / 2
		if window < 2 {
			window = 2
		}
	}
	changes := make([]float64, 0, len(ys)-1)
	for i := 1; i < len(ys); i++ {
		changes = append(changes, ys[i]-ys[i-1])
	}
	if len(changes) == 0 {
		return nil, false
	}
	if window > len(changes) {
		window = len(changes)
	}
	var sum float64
	for _, c := range changes[len(changes)-window:] {
		sum += c
	}
	recent := sum / float64(window)
	lastX := xs[len(xs)-1]
	lastY := ys[len(ys)-1]
	return func(x float64) float64 { return lastY + recent*(x-lastX) }, true
}

package trend

import (
	"testing"
	"time"

	"github.com/ibutrack/teamboard/internal/domain/model"
	"github.com/ibutrack/teamboard/internal/domain/timeseries"
	"github.com/ibutrack/teamboard/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func memberSnaps() []model.MemberSnapshot {
	mk := func(date string, alice, bob int64) model.MemberSnapshot {
		t, _ := time.Parse(model.DateLayout, date)
		return model.MemberSnapshot{Date: t, Rows: []model.MemberRow{
			{Name: "alice", Points: alice, Rank: 1},
			{Name: "bob", Points: bob, Rank: 2},
		}}
	}
	return []model.MemberSnapshot{
		mk("2026-01-01", 100, 10),
		mk("2026-01-02", 250, 40),
		mk("2026-01-03", 500, 90),
	}
}

func teamSnaps() []model.TeamSnapshot {
	mk := func(date string, points int64) model.TeamSnapshot {
		t, _ := time.Parse(model.DateLayout, date)
		return model.TeamSnapshot{Date: t, Rows: []model.TeamRow{
			{Name: "Render Crew", TotalPoints: points, Members: 7, Days90: 50, Days180: 80, Rank: 3},
		}}
	}
	return []model.TeamSnapshot{
		mk("2026-01-01", 1000),
		mk("2026-01-02", 1400),
		mk("2026-01-03", 2000),
	}
}

func TestBuildErrors(t *testing.T) {
	convey.Convey("Given invalid build inputs", t, func() {
		convey.Convey("When there are no snapshots", func() {
			_, err := Build(Request{}, nil, nil)
			convey.So(err, convey.ShouldEqual, ErrNoData)
		})

		convey.Convey("When the start date is malformed", func() {
			_, err := Build(Request{StartDate: "yesterday"}, memberSnaps(), nil)
			convey.So(err, convey.ShouldEqual, ErrBadStartDate)
		})

		convey.Convey("When the end date is malformed", func() {
			_, err := Build(Request{EndDate: "01/02/2026"}, memberSnaps(), nil)
			convey.So(err, convey.ShouldEqual, ErrBadEndDate)
		})

		convey.Convey("When the range excludes every snapshot", func() {
			_, err := Build(Request{StartDate: "2027-01-01"}, memberSnaps(), nil)
			convey.So(err, convey.ShouldEqual, ErrEmptyRange)
		})
	})
}

func TestBuildLineChart(t *testing.T) {
	convey.Convey("Given a cumulative line request for total, a member, and a team", t, func() {
		req := Request{
			Series:     []string{"total", "alice", "team:Render Crew"},
			ChartType:  ChartLine,
			TimePeriod: timeseries.Daily,
			ValueMode:  ModeCumulative,
			FillLines:  true,
		}
		payload, err := Build(req, memberSnaps(), teamSnaps())
		convey.So(err, convey.ShouldBeNil)
		convey.So(payload.Success, convey.ShouldBeTrue)

		convey.Convey("Then traces come back in request order with display labels", func() {
			convey.So(len(payload.Data), convey.ShouldEqual, 3)
			convey.So(payload.Data[0].Name, convey.ShouldEqual, "Total Team Points")
			convey.So(payload.Data[1].Name, convey.ShouldEqual, "alice")
			convey.So(payload.Data[2].Name, convey.ShouldEqual, "Team: Render Crew")
		})

		convey.Convey("And line traces are filled splines in the entity color", func() {
			tr := payload.Data[1]
			convey.So(tr.Type, convey.ShouldEqual, "scatter")
			convey.So(tr.Line.Shape, convey.ShouldEqual, "spline")
			convey.So(tr.Fill, convey.ShouldEqual, "tozeroy")
			convey.So(tr.FillColor, convey.ShouldEqual, tr.Line.Color+"30")
			convey.So(tr.Y, convey.ShouldResemble, []float64{100, 250, 500})
		})

		convey.Convey("And the payload carries counts and metadata", func() {
			convey.So(payload.DataPoints, convey.ShouldEqual, 3)
			convey.So(payload.Metadata.MemberSeries, convey.ShouldResemble, []string{"total", "alice"})
			convey.So(payload.Metadata.TeamSeriesRequested, convey.ShouldResemble, []string{"Render Crew"})
			convey.So(payload.Metadata.DateRange["start"], convey.ShouldEqual, "2026-01-01")
			convey.So(payload.Metadata.DateRange["end"], convey.ShouldEqual, "2026-01-03")
			convey.So(payload.Layout["hovermode"], convey.ShouldEqual, "x unified")
		})
	})

	convey.Convey("Given fill disabled", t, func() {
		req := Request{
			Series:     []string{"alice"},
			ChartType:  ChartLine,
			TimePeriod: timeseries.Daily,
			ValueMode:  ModeCumulative,
		}
		payload, err := Build(req, memberSnaps(), nil)
		convey.So(err, convey.ShouldBeNil)
		convey.So(payload.Data[0].Fill, convey.ShouldBeEmpty)
	})
}

func TestBuildIntervalCandlestick(t *testing.T) {
	convey.Convey("Given an interval candlestick request", t, func() {
		req := Request{
			Series:     []string{"alice"},
			ChartType:  ChartCandlestick,
			TimePeriod: timeseries.Daily,
			ValueMode:  ModeInterval,
		}
		payload, err := Build(req, memberSnaps(), nil)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then each series renders a hover overlay bar before its candle", func() {
			convey.So(len(payload.Data), convey.ShouldEqual, 2)
			convey.So(payload.Data[0].Type, convey.ShouldEqual, "bar")
			convey.So(payload.Data[1].Type, convey.ShouldEqual, "candlestick")
			convey.So(*payload.Data[0].ShowLegend, convey.ShouldBeFalse)
			convey.So(payload.Data[0].OffsetGroup, convey.ShouldEqual, "ovl_alice")
		})

		convey.Convey("And candles compare production period over period", func() {
			candle := payload.Data[1]
			// Daily production 150 then 250; the baseline-less first point is trimmed.
			convey.So(candle.Open, convey.ShouldResemble, []float64{0, 150})
			convey.So(candle.Close, convey.ShouldResemble, []float64{150, 250})
			convey.So(candle.HoverInfo, convey.ShouldEqual, "skip")
		})

		convey.Convey("And the layout switches to closest-point hover", func() {
			convey.So(payload.Layout["hovermode"], convey.ShouldEqual, "closest")
		})
	})
}

func TestBuildPredictions(t *testing.T) {
	convey.Convey("Given a line request with predictions enabled", t, func() {
		req := Request{
			Series:           []string{"alice"},
			ChartType:        ChartLine,
			TimePeriod:       timeseries.Daily,
			ValueMode:        ModeCumulative,
			Predictions:      true,
			PredictionMethod: ForecastLinear,
			PredictionDays:   5,
		}
		payload, err := Build(req, memberSnaps(), nil)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then a dashed forecast trace follows the series", func() {
			convey.So(len(payload.Data), convey.ShouldEqual, 2)
			pred := payload.Data[1]
			convey.So(pred.Name, convey.ShouldEqual, "alice (Prediction)")
			convey.So(pred.Line.Dash, convey.ShouldEqual, "dash")
			convey.So(len(pred.X), convey.ShouldEqual, 5)
			convey.So(pred.X[0], convey.ShouldEqual, "2026-01-04")
		})

		convey.Convey("And the forecast counts toward data points", func() {
			convey.So(payload.DataPoints, convey.ShouldEqual, 5)
		})
	})
}

func TestSplitSeries(t *testing.T) {
	convey.Convey("Given a mixed series list", t, func() {
		members, teams := splitSeries([]string{"total", " alice ", "team: Render Crew", "", "Team:Other"})
		convey.So(members, convey.ShouldResemble, []string{"total", "alice"})
		convey.So(teams, convey.ShouldResemble, []string{"Render Crew", "Other"})
	})
}

func TestMatchTeamRow(t *testing.T) {
	convey.Convey("Given scraped team rows with drifting names", t, func() {
		rows := []model.TeamRow{
			{Name: "Alpha Team ", Rank: 1},
			{Name: "supercalifragilisticexpialidocious", Rank: 2},
			{Name: "alpha crew", Rank: 5},
			{Name: "beta crew", Rank: 2},
			{Name: "gamma crew", Rank: 0},
		}

		convey.Convey("Then an exact lowercased name matches first", func() {
			row, ok := matchTeamRow(rows, "ALPHA TEAM")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(row.Name, convey.ShouldEqual, "Alpha Team ")
		})

		convey.Convey("Then punctuation differences fall back to sanitized matching", func() {
			row, ok := matchTeamRow(rows, "Alpha-Team!")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(row.Name, convey.ShouldEqual, "Alpha Team ")
		})

		convey.Convey("Then long names match on a unique 12-character prefix", func() {
			row, ok := matchTeamRow(rows, "supercalifragilistic")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(row.Rank, convey.ShouldEqual, 2)
		})

		convey.Convey("Then ambiguous substring hits resolve to the best rank", func() {
			row, ok := matchTeamRow(rows, "crew")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(row.Name, convey.ShouldEqual, "beta crew")
		})

		convey.Convey("Then an unmatchable name reports failure", func() {
			_, ok := matchTeamRow(rows, "delta squadron")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestTeamMetricValue(t *testing.T) {
	convey.Convey("Given a team row", t, func() {
		row := model.TeamRow{TotalPoints: 100, Members: 7, Days90: 50, Days180: 80}
		convey.So(teamMetricValue(row, MetricTotalPoints), convey.ShouldEqual, 100)
		convey.So(teamMetricValue(row, MetricMembers), convey.ShouldEqual, 7)
		convey.So(teamMetricValue(row, Metric90Days), convey.ShouldEqual, 50)
		convey.So(teamMetricValue(row, Metric180Days), convey.ShouldEqual, 80)
		convey.So(teamMetricValue(row, ""), convey.ShouldEqual, 100)
	})
}

func TestIntervalCandles(t *testing.T) {
	convey.Convey("Given a production sequence", t, func() {
		open, high, low, closeVals, custom := intervalCandles([]int64{0, 200, 150})

		convey.Convey("Then candles open at the previous period's production", func() {
			convey.So(open, convey.ShouldResemble, []float64{0, 0, 200})
			convey.So(closeVals, convey.ShouldResemble, []float64{0, 200, 150})
			convey.So(high, convey.ShouldResemble, []float64{0, 200, 200})
			convey.So(low, convey.ShouldResemble, []float64{0, 0, 150})
		})

		convey.Convey("And percent change handles the zero baseline", func() {
			convey.So(custom[0][2], convey.ShouldEqual, "0.0%")
			convey.So(custom[1][2], convey.ShouldEqual, "—")
			convey.So(custom[2][2], convey.ShouldEqual, "-25.0%")
		})
	})
}

func TestForecastClamping(t *testing.T) {
	convey.Convey("Given a steeply declining series", t, func() {
		in := lineTracesFixture([]float64{100, 50, 0})
		out := addForecastTraces(in, ForecastLinear, 3)

		convey.Convey("Then forecast values never go negative", func() {
			convey.So(len(out), convey.ShouldEqual, 2)
			for _, y := range out[1].Y {
				convey.So(y, convey.ShouldBeGreaterThanOrEqualTo, 0)
			}
		})
	})

	convey.Convey("Given a series too short to fit", t, func() {
		in := lineTracesFixture([]float64{100, 50})
		out := addForecastTraces(in, ForecastLinear, 3)
		convey.So(len(out), convey.ShouldEqual, 1)
	})
}

// lineTracesFixture builds a single scatter trace over consecutive days.
func lineTracesFixture(ys []float64) []types.Trace {
	xs := make([]string, len(ys))
	start, _ := time.Parse(model.DateLayout, "2026-01-01")
	for i := range ys {
		xs[i] = start.AddDate(0, 0, i).Format(model.DateLayout)
	}
	return []types.Trace{{
		Name: "alice",
		Type: "scatter",
		X:    xs,
		Y:    ys,
		Line: &types.TraceLine{Color: "#112233"},
	}}
}

func TestNameColor(t *testing.T) {
	convey.Convey("Given entity names", t, func() {
		convey.Convey("Then colors are stable hex strings", func() {
			c := NameColor("alice")
			convey.So(c, convey.ShouldStartWith, "#")
			convey.So(len(c), convey.ShouldEqual, 7)
			convey.So(NameColor("alice"), convey.ShouldEqual, c)
			convey.So(NameColor("bob"), convey.ShouldNotEqual, c)
		})
	})
}

func TestBlendWith(t *testing.T) {
	convey.Convey("Given a base color", t, func() {
		convey.Convey("Then a full-alpha blend is the accent color", func() {
			convey.So(blendWith("#000000", 34, 197, 94, 1.0), convey.ShouldEqual, "#22c55e")
		})
		convey.Convey("And a zero-alpha blend is the original", func() {
			convey.So(blendWith("#102030", 34, 197, 94, 0.0), convey.ShouldEqual, "#102030")
		})
		convey.Convey("And short or invalid colors fall back to gray", func() {
			convey.So(blendWith("#abc", 0, 0, 0, 0.0), convey.ShouldEqual, "#aabbcc")
			convey.So(blendWith("oops", 0, 0, 0, 0.0), convey.ShouldEqual, "#808080")
		})
	})
}

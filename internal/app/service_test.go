package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ibutrack/teamboard/internal/domain/probation"
	"github.com/ibutrack/teamboard/internal/domain/timeseries"
	"github.com/ibutrack/teamboard/internal/domain/trend"
	"github.com/ibutrack/teamboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// startService builds a service over two days of fixture snapshots with the
// watcher off and the evaluator clock pinned to 2025-10-25.
func startService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}

	memberDir := t.TempDir()
	teamDir := t.TempDir()
	stateDir := t.TempDir()

	writeFixture(t, memberDir, "members_2025-10-19.csv",
		"Member,Points,Joined Date\n"+
			"alice,4000000,\"January 1st, 2025\"\n"+
			"bob,100000,\"October 10th, 2025\"\n")
	writeFixture(t, memberDir, "members_2025-10-20.csv",
		"Member,Points,Joined Date\n"+
			"alice,5000000,\"January 1st, 2025\"\n"+
			"bob,300000,\"October 10th, 2025\"\n"+
			"carol,0,\"October 15th, 2025\"\n")
	writeFixture(t, teamDir, "teams_2025-10-20.csv",
		"Name,total_points,members,90_days,180_days,Rank\n"+
			"Render Crew,9000000,12,400000,900000,1\n"+
			"Night Shift,12000000,8,600000,1100000,2\n")

	now := func() time.Time { return time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC) }
	svc := New(
		WithLogger(logger.Get()),
		WithDataDir(memberDir),
		WithTeamDir(teamDir),
		WithOverridesPath(filepath.Join(stateDir, "overrides.json")),
		WithCachePath(filepath.Join(stateDir, "cache", "report.json")),
		WithWatcher(false, 0),
		WithEvaluator(probation.New(probation.WithNow(now))),
	)

	ctx := context.Background()
	if err := svc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { svc.Stop(ctx) })
	return svc, ctx
}

func TestServiceProbationReport(t *testing.T) {
	svc, ctx := startService(t)

	convey.Convey("Given a started service", t, func() {
		report, err := svc.ProbationReport(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(report.Success, convey.ShouldBeTrue)
		convey.So(len(report.Members), convey.ShouldEqual, 3)

		convey.Convey("Then milestone outcomes match the fixture history", func() {
			byName := map[string]string{}
			for _, m := range report.Members {
				byName[m.Name] = m.ProbationStatus
			}
			convey.So(byName["alice"], convey.ShouldEqual, probation.StatusPassed)
			convey.So(byName["bob"], convey.ShouldEqual, probation.StatusFailed)
			convey.So(byName["carol"], convey.ShouldEqual, probation.StatusInProgress)
		})

		convey.Convey("And a second read is served from the cache", func() {
			again, err := svc.ProbationReport(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(again.Members), convey.ShouldEqual, 3)
		})

		convey.Convey("And an override write invalidates the cached report", func() {
			_, err := svc.SetOverride(ctx, "bob", map[string]*bool{
				"week_1": boolPtr(true), "month_1": boolPtr(true), "month_3": boolPtr(true),
			}, false)
			convey.So(err, convey.ShouldBeNil)

			fresh, err := svc.ProbationReport(ctx)
			convey.So(err, convey.ShouldBeNil)
			for _, m := range fresh.Members {
				if m.Name == "bob" {
					convey.So(m.ProbationStatus, convey.ShouldEqual, probation.StatusPassed)
				}
			}

			convey.Convey("And the override map reflects the write", func() {
				ovs := svc.Overrides(ctx)
				convey.So(*ovs["bob"].Week1, convey.ShouldBeTrue)
			})
		})
	})
}

func TestServiceStats(t *testing.T) {
	svc, ctx := startService(t)

	convey.Convey("Given a started service", t, func() {
		stats, err := svc.Stats(ctx)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then totals and gains compare against the previous snapshot", func() {
			convey.So(stats.TotalPoints, convey.ShouldEqual, 5_300_000)
			convey.So(stats.TotalPointsGain, convey.ShouldEqual, 1_200_000)
			convey.So(stats.ActiveMembers, convey.ShouldEqual, 2)
			convey.So(stats.ActiveMembersGain, convey.ShouldEqual, 0)
		})

		convey.Convey("And top performers rank by points with their gains", func() {
			convey.So(len(stats.TopPerformers), convey.ShouldEqual, 2)
			convey.So(stats.TopPerformers[0].Name, convey.ShouldEqual, "alice")
			convey.So(stats.TopPerformers[0].Gain, convey.ShouldEqual, 1_000_000)
			convey.So(stats.TopPerformers[1].Gain, convey.ShouldEqual, 200_000)
		})
	})
}

func TestServiceListsAndDates(t *testing.T) {
	svc, ctx := startService(t)

	convey.Convey("Given a started service", t, func() {
		convey.Convey("Then the member list sorts by current points descending", func() {
			members, earliest, latest, err := svc.MemberList(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(members[0].Name, convey.ShouldEqual, "alice")
			convey.So(members[2].Name, convey.ShouldEqual, "carol")
			convey.So(earliest, convey.ShouldEqual, "2025-10-19")
			convey.So(latest, convey.ShouldEqual, "2025-10-20")
		})

		convey.Convey("Then the team list sorts by total points descending", func() {
			teams, _, latest, err := svc.TeamList(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(teams[0].Name, convey.ShouldEqual, "Night Shift")
			convey.So(latest, convey.ShouldEqual, "2025-10-20")
		})

		convey.Convey("Then dates list ascending", func() {
			convey.So(svc.Dates(ctx), convey.ShouldResemble, []string{"2025-10-19", "2025-10-20"})
		})
	})
}

func TestServiceRangeDelta(t *testing.T) {
	svc, ctx := startService(t)

	convey.Convey("Given two exact snapshot dates", t, func() {
		delta, err := svc.RangeDelta(ctx, "2025-10-19", "2025-10-20")
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then gains count from zero for members new at the end", func() {
			convey.So(delta.Members, convey.ShouldResemble, []string{"alice", "bob", "carol"})
			convey.So(delta.Deltas, convey.ShouldResemble, []int64{1_000_000, 200_000, 0})
			convey.So(delta.Total, convey.ShouldEqual, 1_200_000)
			convey.So(delta.Active, convey.ShouldEqual, 2)
		})
	})

	convey.Convey("Given a date without a snapshot", t, func() {
		_, err := svc.RangeDelta(ctx, "2025-10-18", "2025-10-20")
		convey.So(errors.Is(err, ErrStartDateNotFound), convey.ShouldBeTrue)

		_, err = svc.RangeDelta(ctx, "2025-10-19", "2025-10-21")
		convey.So(errors.Is(err, ErrEndDateNotFound), convey.ShouldBeTrue)
	})
}

func TestServiceTrends(t *testing.T) {
	svc, ctx := startService(t)

	convey.Convey("Given a trend request through the service", t, func() {
		payload, err := svc.Trends(ctx, trend.Request{
			Series:     []string{"total", "alice", "team:Render Crew"},
			ChartType:  trend.ChartLine,
			TimePeriod: timeseries.Daily,
			ValueMode:  trend.ModeCumulative,
		})
		convey.So(err, convey.ShouldBeNil)
		convey.So(payload.Success, convey.ShouldBeTrue)
		convey.So(len(payload.Data), convey.ShouldEqual, 3)
	})
}

func boolPtr(v bool) *bool { return &v }

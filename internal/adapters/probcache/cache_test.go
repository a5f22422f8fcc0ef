package probcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ibutrack/teamboard/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	convey.Convey("Given a report cache", t, func() {
		path := filepath.Join(t.TempDir(), "cache", "report.json")
		c := New(path)
		report := types.ProbationReport{
			Success: true,
			Members: []types.MemberStatus{{Name: "alice", ProbationStatus: "passed"}},
		}

		convey.Convey("When nothing has been cached", func() {
			_, ok := c.Get(5)
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When a report is cached under a snapshot count", func() {
			convey.So(c.Put(report, 5), convey.ShouldBeNil)

			convey.Convey("Then the same count is a hit", func() {
				got, ok := c.Get(5)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(got.Members[0].Name, convey.ShouldEqual, "alice")
			})

			convey.Convey("And any other count is a miss", func() {
				_, ok := c.Get(6)
				convey.So(ok, convey.ShouldBeFalse)
			})

			convey.Convey("And a corrupted file is a miss, not an error", func() {
				convey.So(os.WriteFile(path, []byte("{broken"), 0o644), convey.ShouldBeNil)
				_, ok := c.Get(5)
				convey.So(ok, convey.ShouldBeFalse)
			})

			convey.Convey("And a newer Put replaces the envelope", func() {
				convey.So(c.Put(types.ProbationReport{Success: true}, 6), convey.ShouldBeNil)
				_, ok := c.Get(5)
				convey.So(ok, convey.ShouldBeFalse)
				got, ok := c.Get(6)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(got.Members, convey.ShouldBeEmpty)
			})
		})
	})
}

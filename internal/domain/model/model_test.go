package model

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func TestParseJoinedDate(t *testing.T) {
	convey.Convey("Given raw joined-date strings", t, func() {
		convey.Convey("When parsing dates with ordinal suffixes", func() {
			cases := map[string]time.Time{
				"December 19th, 2023": time.Date(2023, 12, 19, 0, 0, 0, 0, time.UTC),
				"March 1st, 2024":     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				"April 2nd, 2024":     time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
				"May 3rd, 2024":       time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
			}
			convey.Convey("Then each suffix should be stripped and parsed", func() {
				for raw, want := range cases {
					got, ok := ParseJoinedDate(raw)
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(got.Equal(want), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When the value is wrapped in CSV quotes and whitespace", func() {
			got, ok := ParseJoinedDate(`  "January 5th, 2025"  `)
			convey.Convey("Then it should still parse", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(got.Format(DateLayout), convey.ShouldEqual, "2025-01-05")
			})
		})

		convey.Convey("When the value is unparsable", func() {
			convey.Convey("Then parsing should report failure", func() {
				for _, raw := range []string{"", "n/a", "2023-12-19", "Boxing Day 2023"} {
					_, ok := ParseJoinedDate(raw)
					convey.So(ok, convey.ShouldBeFalse)
				}
			})
		})
	})
}

func TestCoerceInt(t *testing.T) {
	convey.Convey("Given raw numeric cells", t, func() {
		convey.Convey("When the cell is a plain integer", func() {
			n, c := CoerceInt("1234567")
			convey.So(n, convey.ShouldEqual, 1234567)
			convey.So(c, convey.ShouldEqual, CoercedValid)
		})

		convey.Convey("When the cell has thousands separators", func() {
			n, c := CoerceInt("3,000,000")
			convey.So(n, convey.ShouldEqual, 3000000)
			convey.So(c, convey.ShouldEqual, CoercedValid)
		})

		convey.Convey("When the cell is a spreadsheet float", func() {
			n, c := CoerceInt("250000.0")
			convey.So(n, convey.ShouldEqual, 250000)
			convey.So(c, convey.ShouldEqual, CoercedValid)
		})

		convey.Convey("When the cell is empty", func() {
			n, c := CoerceInt("   ")
			convey.So(n, convey.ShouldEqual, 0)
			convey.So(c, convey.ShouldEqual, CoercedMissing)
		})

		convey.Convey("When the cell is garbage", func() {
			n, c := CoerceInt("lots")
			convey.So(n, convey.ShouldEqual, 0)
			convey.So(c, convey.ShouldEqual, CoercedMalformed)
		})
	})
}

func TestSnapshotHelpers(t *testing.T) {
	convey.Convey("Given a member snapshot", t, func() {
		snap := MemberSnapshot{
			Date: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			Rows: []MemberRow{
				{Name: "alice", Points: 100},
				{Name: "bob", Points: 250},
			},
		}

		convey.Convey("When looking up rows by name", func() {
			row, ok := snap.Find("bob")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(row.Points, convey.ShouldEqual, 250)

			_, ok = snap.Find("Bob")
			convey.Convey("Then lookup should be case-sensitive", func() {
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When summing points", func() {
			convey.So(snap.TotalPoints(), convey.ShouldEqual, 350)
		})
	})
}

func TestDay(t *testing.T) {
	convey.Convey("Given times with clock components and zones", t, func() {
		loc := time.FixedZone("plus5", 5*3600)
		in := time.Date(2026, 8, 29, 23, 45, 1, 0, loc)

		convey.Convey("Then Day should truncate to midnight UTC of the wall date", func() {
			got := Day(in)
			convey.So(got.Hour(), convey.ShouldEqual, 0)
			convey.So(got.Location(), convey.ShouldEqual, time.UTC)
			convey.So(got.Format(DateLayout), convey.ShouldEqual, "2026-08-29")
		})
	})
}

package normalize

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestHeaders(t *testing.T) {
	convey.Convey("Given CSV headers from different scraper versions", t, func() {
		convey.Convey("When the file uses 'name' for the member column", func() {
			got := Headers([]string{" name ", "points", "Rank", "Joined Date"})
			convey.So(got, convey.ShouldResemble, []string{"Member", "Points", "Rank", "Joined Date"})
		})

		convey.Convey("When the file uses 'MEMBER' in a different case", func() {
			got := Headers([]string{"MEMBER", "Points"})
			convey.So(got[0], convey.ShouldEqual, ColMember)
		})

		convey.Convey("When unrelated columns are present", func() {
			got := Headers([]string{"Member", "Points", "favorite color"})
			convey.Convey("Then they should pass through trimmed but unrenamed", func() {
				convey.So(got[2], convey.ShouldEqual, "favorite color")
			})
		})

		convey.Convey("When the header is empty", func() {
			convey.So(Headers(nil), convey.ShouldBeNil)
		})
	})
}

func TestColumnIndex(t *testing.T) {
	convey.Convey("Given a normalized header", t, func() {
		header := Headers([]string{"Member", "Points", "Joined Date"})
		convey.So(ColumnIndex(header, ColPoints), convey.ShouldEqual, 1)
		convey.So(ColumnIndex(header, ColJoinedDate), convey.ShouldEqual, 2)
		convey.So(ColumnIndex(header, ColRank), convey.ShouldEqual, -1)
	})
}

func TestTeamName(t *testing.T) {
	convey.Convey("Given decorated team names", t, func() {
		convey.So(TeamName("  Render CREW  "), convey.ShouldEqual, "render crew")
		convey.So(TeamName("alpha"), convey.ShouldEqual, "alpha")
	})
}

func TestSanitizeTeamName(t *testing.T) {
	convey.Convey("Given team names with punctuation, emoji, and unicode", t, func() {
		cases := map[string]string{
			"Sheep It Renderers!!":  "sheep it renderers",
			"⭐ The A-Team ⭐":        "the a team",
			"ＦＵＬＬＷＩＤＴＨ　ｃｒｅｗ　42": "fullwidth crew 42",
			"___":                   "",
			"plain name":            "plain name",
		}
		convey.Convey("Then only ASCII alphanumerics and single spaces should survive", func() {
			for in, want := range cases {
				convey.So(SanitizeTeamName(in), convey.ShouldEqual, want)
			}
		})
	})
}

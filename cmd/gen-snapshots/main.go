// Command gen-snapshots writes synthetic dated member and team CSV exports
// for local development, so the dashboard can be exercised without real
// farm data.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Default generation constants.
const (
	defaultMembers  = 40
	defaultTeams    = 6
	defaultDays     = 120
	defaultMaxDaily = 60_000
	dateLayout      = "2006-01-02"
	joinedLayout    = "January 2, 2006"
)

type member struct {
	name   string
	joined time.Time
	points int64
	rate   int64
}

type team struct {
	name    string
	points  int64
	members int
	rate    int64
}

func main() {
	var (
		memberDir = flag.String("member-dir", "data/member_snapshots", "Directory for member snapshot CSVs")
		teamDir   = flag.String("team-dir", "data/team_rankings", "Directory for team ranking CSVs")
		members   = flag.Int("members", defaultMembers, "Number of members to generate")
		teams     = flag.Int("teams", defaultTeams, "Number of teams to generate")
		days      = flag.Int("days", defaultDays, "Number of daily snapshots, ending today")
		seed      = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -*days+1)

	roster := makeMembers(rng, *members, start, *days)
	squads := makeTeams(rng, *teams)

	for d := 0; d < *days; d++ {
		day := start.AddDate(0, 0, d)
		advance(rng, roster, squads, day)
		if err := writeMemberSnapshot(*memberDir, day, roster); err != nil {
			os.Stderr.WriteString("write member snapshot: " + err.Error() + "\n")
			return
		}
		if err := writeTeamSnapshot(*teamDir, day, squads); err != nil {
			os.Stderr.WriteString("write team snapshot: " + err.Error() + "\n")
			return
		}
	}

	fmt.Printf("wrote %d member snapshots to %s and %d team snapshots to %s (seed %d)\n",
		*days, *memberDir, *days, *teamDir, *seed)
}

// makeMembers builds a roster with joined dates spread across the generated
// range so every probation state shows up in the report.
func makeMembers(rng *rand.Rand, n int, start time.Time, days int) []*member {
	out := make([]*member, 0, n)
	for i := 0; i < n; i++ {
		joined := start.AddDate(0, 0, rng.Intn(days))
		out = append(out, &member{
			name:   "renderer-" + uuid.NewString()[:8],
			joined: joined,
			rate:   int64(rng.Intn(defaultMaxDaily)),
		})
	}
	return out
}

func makeTeams(rng *rand.Rand, n int) []*team {
	out := make([]*team, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &team{
			name:    "Render Crew " + strconv.Itoa(i+1),
			members: 2 + rng.Intn(20),
			rate:    int64(rng.Intn(defaultMaxDaily * 4)),
		})
	}
	return out
}

// advance accumulates one day of production with some jitter.
func advance(rng *rand.Rand, roster []*member, squads []*team, day time.Time) {
	for _, m := range roster {
		if day.Before(m.joined) {
			continue
		}
		m.points += m.rate + int64(rng.Intn(10_000))
	}
	for _, t := range squads {
		t.points += t.rate + int64(rng.Intn(40_000))
	}
}

func writeMemberSnapshot(dir string, day time.Time, roster []*member) error {
	rows := [][]string{{"Member", "Points", "Joined Date"}}
	for _, m := range roster {
		if day.Before(m.joined) {
			continue
		}
		rows = append(rows, []string{
			m.name,
			strconv.FormatInt(m.points, 10),
			m.joined.Format(joinedLayout),
		})
	}
	name := "members_" + day.Format(dateLayout) + ".csv"
	return writeCSV(filepath.Join(dir, name), rows)
}

func writeTeamSnapshot(dir string, day time.Time, squads []*team) error {
	rows := [][]string{{"Name", "total_points", "members", "90_days", "180_days", "Rank"}}
	for i, t := range squads {
		rows = append(rows, []string{
			t.name,
			strconv.FormatInt(t.points, 10),
			strconv.Itoa(t.members),
			strconv.FormatInt(t.rate*90, 10),
			strconv.FormatInt(t.rate*180, 10),
			strconv.Itoa(i + 1),
		})
	}
	name := "teams_" + day.Format(dateLayout) + ".csv"
	return writeCSV(filepath.Join(dir, name), rows)
}

func writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

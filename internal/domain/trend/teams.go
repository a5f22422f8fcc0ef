package trend

import (
	"strings"

	"github.com/ibutrack/teamboard/internal/domain/model"
	"github.com/ibutrack/teamboard/internal/domain/normalize"
	"github.com/ibutrack/teamboard/internal/domain/timeseries"
)

// Team metric parameter values.
const (
	MetricTotalPoints = "total_points"
	MetricMembers     = "members"
	Metric90Days      = "90_days"
	Metric180Days     = "180_days"
)

const teamPrefixLen = 12

// buildTeamSeries assembles one series for a requested team name across the
// team-rankings snapshots. Dates where the team cannot be matched are simply
// absent. Deltas are clamped at zero because rankings occasionally shrink
// when the upstream page is re-scraped mid-update.
func buildTeamSeries(snaps []model.TeamSnapshot, requested, metric string) *timeseries.Series {
	s := &timeseries.Series{}
	for _, snap := range snaps {
		row, ok := matchTeamRow(snap.Rows, requested)
		if !ok {
			continue
		}
		s.Append(snap.Date.Format(model.DateLayout), teamMetricValue(row, metric), row.Rank, true)
	}
	return s
}

func teamMetricValue(row model.TeamRow, metric string) int64 {
	switch metric {
	case MetricMembers:
		return row.Members
	case Metric90Days:
		return row.Days90
	case Metric180Days:
		return row.Days180
	}
	return row.TotalPoints
}

// matchTeamRow resolves a user-supplied team name against scraped rows.
// Scraped names drift (truncation, decorations, casing), so matching
// cascades from strict to permissive and accepts a looser step only when it
// is unambiguous:
//
//  1. exact lowercased match
//  2. exact sanitized match
//  3. unique lowercased prefix (first 12 chars of the request)
//  4. unique sanitized prefix (first 12 chars)
//  5. sanitized first-token substring; a unique hit wins, ties go to the
//     best (lowest) rank
func matchTeamRow(rows []model.TeamRow, requested string) (model.TeamRow, bool) {
	targetNorm := normalize.TeamName(requested)
	targetSan := normalize.SanitizeTeamName(requested)

	for _, r := range rows {
		if normalize.TeamName(r.Name) == targetNorm {
			return r, true
		}
	}
	for _, r := range rows {
		if normalize.SanitizeTeamName(r.Name) == targetSan {
			return r, true
		}
	}
	if row, ok := uniquePrefix(rows, targetNorm, normalize.TeamName); ok {
		return row, true
	}
	if row, ok := uniquePrefix(rows, targetSan, normalize.SanitizeTeamName); ok {
		return row, true
	}
	if targetSan != "" {
		token := strings.SplitN(targetSan, " ", 2)[0]
		var hits []model.TeamRow
		for _, r := range rows {
			if strings.Contains(normalize.SanitizeTeamName(r.Name), token) {
				hits = append(hits, r)
			}
		}
		switch {
		case len(hits) == 1:
			return hits[0], true
		case len(hits) > 1:
			best := hits[0]
			for _, h := range hits[1:] {
				if effectiveRank(h.Rank) < effectiveRank(best.Rank) {
					best = h
				}
			}
			return best, true
		}
	}
	return model.TeamRow{}, false
}

func uniquePrefix(rows []model.TeamRow, target string, norm func(string) string) (model.TeamRow, bool) {
	prefix := target
	if len(prefix) > teamPrefixLen {
		prefix = prefix[:teamPrefixLen]
	}
	if prefix == "" {
		return model.TeamRow{}, false
	}
	var hits []model.TeamRow
	for _, r := range rows {
		if strings.HasPrefix(norm(r.Name), prefix) {
			hits = append(hits, r)
		}
	}
	if len(hits) == 1 {
		return hits[0], true
	}
	return model.TeamRow{}, false
}

// effectiveRank treats a missing rank as worst so real ranks win ties.
func effectiveRank(r int) int {
	if r <= 0 {
		return 1 << 20
	}
	return r
}

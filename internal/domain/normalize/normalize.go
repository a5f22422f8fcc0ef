// Package normalize unifies the heterogeneous column naming and team naming
// found across scraped snapshot files into canonical shapes.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Canonical column names for member-points snapshots.
const (
	ColMember     = "Member"
	ColPoints     = "Points"
	ColRank       = "Rank"
	ColJoinedDate = "Joined Date"
)

// Headers returns a copy of header with member/points aliases renamed to
// their canonical form. Accepted aliases (case-insensitive, whitespace
// trimmed): "member" and "name" for Member, "points" for Points. Unrelated
// columns pass through untouched. Empty input is returned as-is.
func Headers(header []string) []string {
	if len(header) == 0 {
		return header
	}
	out := make([]string, len(header))
	for i, h := range header {
		trimmed := strings.TrimSpace(h)
		switch strings.ToLower(trimmed) {
		case "member", "name":
			out[i] = ColMember
		case "points":
			out[i] = ColPoints
		default:
			out[i] = trimmed
		}
	}
	return out
}

// ColumnIndex finds the canonical column's position in an already-normalized
// header, or -1.
func ColumnIndex(header []string, canonical string) int {
	for i, h := range header {
		if h == canonical {
			return i
		}
	}
	return -1
}

// TeamName lowercases and trims a team name for exact matching.
func TeamName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SanitizeTeamName reduces a team name for fuzzy-ish matching: NFKC unicode
// normalization, lowercase, punctuation and emoji replaced by spaces, runs of
// whitespace collapsed. Only ASCII alphanumerics survive, which keeps
// matching stable across scraper feeds that disagree on decoration.
func SanitizeTeamName(name string) string {
	n := strings.ToLower(norm.NFKC.String(name))
	var b strings.Builder
	b.Grow(len(n))
	lastSpace := true
	for _, r := range n {
		if (r >= 'a' && r <= 'z') || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Package snapshots indexes the dated CSV exports that feed the dashboard:
// member point snapshots and team ranking snapshots. The directory is the
// source of truth; the store only ever reads it and rebuilds its in-memory
// index atomically under a refresh.
package snapshots

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ibutrack/teamboard/internal/domain/model"
	"github.com/ibutrack/teamboard/pkg/logger"
	"github.com/ibutrack/teamboard/pkg/metrics"

	"sync"
)

// snapshotDate extracts the ISO date embedded in an export filename.
var snapshotDate = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// Store is a read-only index over snapshot CSV directories.
type Store struct {
	memberDir string
	teamDir   string
	logger    logger.Logger

	mu      sync.RWMutex
	members []model.MemberSnapshot
	teams   []model.TeamSnapshot
}

// New creates a Store over a member snapshot directory. The index is empty
// until the first Refresh.
func New(memberDir string, opts ...Option) *Store {
	s := &Store{memberDir: memberDir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh rescans both directories and swaps in the rebuilt index. Files
// without a parsable date in their name are ignored; a single unreadable
// file is logged and skipped, never fatal.
func (s *Store) Refresh(ctx context.Context) error {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	start := time.Now()

	members, err := s.loadMembers(ctx)
	if err != nil {
		return err
	}
	var teams []model.TeamSnapshot
	if s.teamDir != "" {
		teams = s.loadTeams(ctx)
	}

	s.mu.Lock()
	s.members = members
	s.teams = teams
	s.mu.Unlock()

	metrics.RecordSnapshotRefresh(float64(time.Since(start).Milliseconds()))
	metrics.UpdateSnapshotsIndexed(len(members))
	metrics.UpdateTeamSnapshotsIndexed(len(teams))
	if len(members) > 0 {
		metrics.UpdateTrackedMembers(len(members[len(members)-1].Rows))
	}

	s.logger.Info(ctx, "snapshot index refreshed",
		logger.Int("member_snapshots", len(members)),
		logger.Int("team_snapshots", len(teams)),
	)
	return nil
}

func (s *Store) loadMembers(ctx context.Context) ([]model.MemberSnapshot, error) {
	files, err := datedFiles(s.memberDir)
	if err != nil {
		return nil, err
	}
	snaps := make([]model.MemberSnapshot, 0, len(files))
	for _, f := range files {
		rows, err := readMemberCSV(f.path)
		if err != nil {
			s.logger.Warn(ctx, "skipping unreadable member snapshot",
				logger.String("file", f.path), logger.Error(err))
			continue
		}
		snaps = append(snaps, model.MemberSnapshot{Date: f.date, Rows: rows})
	}
	return snaps, nil
}

func (s *Store) loadTeams(ctx context.Context) []model.TeamSnapshot {
	files, err := datedFiles(s.teamDir)
	if err != nil {
		s.logger.Warn(ctx, "team rankings directory unreadable",
			logger.String("dir", s.teamDir), logger.Error(err))
		return nil
	}
	snaps := make([]model.TeamSnapshot, 0, len(files))
	for _, f := range files {
		rows, err := readTeamCSV(f.path)
		if err != nil {
			s.logger.Warn(ctx, "skipping unreadable team snapshot",
				logger.String("file", f.path), logger.Error(err))
			continue
		}
		snaps = append(snaps, model.TeamSnapshot{Date: f.date, Rows: rows})
	}
	return snaps
}

// Members returns the indexed member snapshots in ascending date order.
func (s *Store) Members() []model.MemberSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members
}

// Teams returns the indexed team snapshots in ascending date order.
func (s *Store) Teams() []model.TeamSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teams
}

// Latest returns the most recent member snapshot.
func (s *Store) Latest() (model.MemberSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.members) == 0 {
		return model.MemberSnapshot{}, false
	}
	return s.members[len(s.members)-1], true
}

// Previous returns the second most recent member snapshot.
func (s *Store) Previous() (model.MemberSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.members) < 2 {
		return model.MemberSnapshot{}, false
	}
	return s.members[len(s.members)-2], true
}

// Count returns the number of indexed member snapshots.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Dates returns the member snapshot dates in ascending order.
func (s *Store) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.members))
	for i, m := range s.members {
		out[i] = m.Date.Format(model.DateLayout)
	}
	return out
}

// ExactDate returns the member snapshot dated exactly date, if indexed.
func (s *Store) ExactDate(date string) (model.MemberSnapshot, bool) {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return model.MemberSnapshot{}, false
	}
	want := model.Day(t)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if model.Day(m.Date).Equal(want) {
			return m, true
		}
	}
	return model.MemberSnapshot{}, false
}

type datedFile struct {
	path string
	date time.Time
}

// datedFiles lists the CSV files of dir that carry an ISO date in their
// name, ascending by that date.
func datedFiles(dir string) ([]datedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []datedFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		m := snapshotDate.FindString(e.Name())
		if m == "" {
			continue
		}
		t, err := time.Parse(model.DateLayout, m)
		if err != nil {
			continue
		}
		out = append(out, datedFile{path: filepath.Join(dir, e.Name()), date: model.Day(t)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].date.Before(out[j].date) })
	return out, nil
}

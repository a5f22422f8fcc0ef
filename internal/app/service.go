// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ibutrack/teamboard/internal/adapters/overrides"
	"github.com/ibutrack/teamboard/internal/adapters/probcache"
	"github.com/ibutrack/teamboard/internal/adapters/snapshots"
	"github.com/ibutrack/teamboard/internal/adapters/watch"
	"github.com/ibutrack/teamboard/internal/domain/model"
	"github.com/ibutrack/teamboard/internal/domain/probation"
	"github.com/ibutrack/teamboard/internal/domain/trend"
	"github.com/ibutrack/teamboard/internal/domain/types"
	"github.com/ibutrack/teamboard/pkg/logger"
	"github.com/ibutrack/teamboard/pkg/metrics"
)

const topPerformerCount = 10

// Service wires the snapshot store, override store, report cache, and the
// domain evaluators behind the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     *snapshots.Store
	overrides *overrides.Store
	cache     *probcache.Cache
	evaluator *probation.Evaluator
	watcher   *watch.Watcher

	// Configuration
	dataDir       string
	teamDir       string
	overridesPath string
	cachePath     string
	watchEnabled  bool
	watchDebounce time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the member snapshot directory.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithTeamDir sets the team rankings directory.
func WithTeamDir(dir string) Option {
	return func(s *Service) {
		s.teamDir = dir
	}
}

// WithOverridesPath sets the overrides JSON file path.
func WithOverridesPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.overridesPath = path
		}
	}
}

// WithCachePath sets the probation report cache file path.
func WithCachePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.cachePath = path
		}
	}
}

// WithWatcher enables filesystem watching with the given debounce.
func WithWatcher(enabled bool, debounce time.Duration) Option {
	return func(s *Service) {
		s.watchEnabled = enabled
		if debounce > 0 {
			s.watchDebounce = debounce
		}
	}
}

// WithEvaluator replaces the probation evaluator; tests pin the clock here.
func WithEvaluator(e *probation.Evaluator) Option {
	return func(s *Service) {
		if e != nil {
			s.evaluator = e
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:       "data/member_snapshots",
		overridesPath: "data/probation_overrides.json",
		cachePath:     "data/cache/probation_report.json",
		watchEnabled:  true,
		watchDebounce: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.evaluator == nil {
		s.evaluator = probation.New()
	}
	return s
}

// Start builds the adapters, indexes the snapshot directories, and begins
// watching for changes.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting teamboard service...")

	storeOpts := []snapshots.Option{snapshots.WithLogger(s.logger)}
	if s.teamDir != "" {
		storeOpts = append(storeOpts, snapshots.WithTeamDir(s.teamDir))
	}
	s.store = snapshots.New(s.dataDir, storeOpts...)
	if err := s.store.Refresh(ctx); err != nil {
		return err
	}

	s.overrides = overrides.New(s.overridesPath, overrides.WithLogger(s.logger))
	s.cache = probcache.New(s.cachePath)

	if s.watchEnabled {
		s.watcher = watch.New(
			func(ctx context.Context) {
				if err := s.store.Refresh(ctx); err != nil {
					s.logger.Error(ctx, "snapshot refresh failed", logger.Error(err))
				}
			},
			[]string{s.dataDir, s.teamDir},
			watch.WithDebounce(s.watchDebounce),
			watch.WithLogger(s.logger),
		)
		if err := s.watcher.Start(ctx); err != nil {
			s.logger.Warn(ctx, "filesystem watcher disabled", logger.Error(err))
			s.watcher = nil
		}
	}

	s.started = true
	s.logger.Info(ctx, "teamboard service started",
		logger.Int("member_snapshots", s.store.Count()),
		logger.String("data_dir", s.dataDir),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.started = false
	s.logger.Info(ctx, "teamboard service stopped")
}

// Refresh forces a snapshot index rebuild.
func (s *Service) Refresh(ctx context.Context) error {
	return s.store.Refresh(ctx)
}

// ProbationReport returns the cached probation report, recomputing it when
// the snapshot count changed since the cache was written.
func (s *Service) ProbationReport(ctx context.Context) (types.ProbationReport, error) {
	count := s.store.Count()
	if report, ok := s.cache.Get(count); ok {
		return report, nil
	}

	start := time.Now()
	report, err := s.evaluator.Report(s.store.Members(), s.overrides.Load())
	if err != nil {
		return types.ProbationReport{}, err
	}
	metrics.RecordProbationEvaluation(float64(time.Since(start).Milliseconds()))

	if err := s.cache.Put(report, count); err != nil {
		// Cache is best effort; the report itself is fine.
		s.logger.Warn(ctx, "probation cache write failed", logger.Error(err))
	}
	return report, nil
}

// SetOverride applies one member's override update and invalidates the
// cached report by rewriting it on the next read.
func (s *Service) SetOverride(ctx context.Context, member string, incoming map[string]*bool, remove bool) (types.Override, error) {
	ov, err := s.overrides.Apply(member, incoming, remove)
	if err != nil {
		return types.Override{}, err
	}
	// The report cache keys on snapshot count, which an override change
	// does not touch; drop it by writing an impossible count.
	if err := s.cache.Put(types.ProbationReport{}, -1); err != nil {
		s.logger.Warn(ctx, "probation cache invalidation failed", logger.Error(err))
	}
	return ov, nil
}

// Overrides returns the full override map.
func (s *Service) Overrides(ctx context.Context) types.OverrideMap {
	return s.overrides.Load()
}

// Trends builds a chart payload for the request.
func (s *Service) Trends(ctx context.Context, req trend.Request) (types.TrendPayload, error) {
	start := time.Now()
	payload, err := trend.Build(req, s.store.Members(), s.store.Teams())
	if err != nil {
		return types.TrendPayload{}, err
	}
	metrics.RecordTrendRequest(req.ChartType, req.ValueMode, float64(time.Since(start).Milliseconds()))
	return payload, nil
}

// MemberList returns the latest snapshot's members sorted by points
// descending, plus the indexed date range.
func (s *Service) MemberList(ctx context.Context) ([]types.MemberSummary, string, string, error) {
	latest, ok := s.store.Latest()
	if !ok {
		return nil, "", "", probation.ErrNoSnapshots
	}
	members := make([]types.MemberSummary, 0, len(latest.Rows))
	for _, row := range latest.Rows {
		members = append(members, types.MemberSummary{Name: row.Name, CurrentPoints: row.Points})
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].CurrentPoints > members[j].CurrentPoints
	})
	dates := s.store.Dates()
	return members, dates[0], dates[len(dates)-1], nil
}

// TeamList returns the latest team rankings sorted by total points
// descending, plus the team snapshot date range.
func (s *Service) TeamList(ctx context.Context) ([]types.TeamSummary, string, string, error) {
	teams := s.store.Teams()
	if len(teams) == 0 {
		return nil, "", "", ErrNoTeamData
	}
	latest := teams[len(teams)-1]
	out := make([]types.TeamSummary, 0, len(latest.Rows))
	for _, row := range latest.Rows {
		out = append(out, types.TeamSummary{
			Name:        row.Name,
			TotalPoints: row.TotalPoints,
			Members:     row.Members,
			Days90:      row.Days90,
			Days180:     row.Days180,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPoints > out[j].TotalPoints
	})
	first := teams[0].Date.Format(model.DateLayout)
	last := latest.Date.Format(model.DateLayout)
	return out, first, last, nil
}

// Dates returns the available member snapshot dates ascending.
func (s *Service) Dates(ctx context.Context) []string {
	return s.store.Dates()
}

// Stats summarizes the latest snapshot against the previous one.
func (s *Service) Stats(ctx context.Context) (types.SummaryStats, error) {
	latest, ok := s.store.Latest()
	if !ok {
		return types.SummaryStats{}, probation.ErrNoSnapshots
	}

	var stats types.SummaryStats
	active := 0
	for _, row := range latest.Rows {
		stats.TotalPoints += row.Points
		if row.Points > 0 {
			active++
		}
	}
	stats.ActiveMembers = active

	prevPoints := map[string]int64{}
	if prev, ok := s.store.Previous(); ok {
		var prevTotal int64
		prevActive := 0
		for _, row := range prev.Rows {
			prevPoints[row.Name] = row.Points
			prevTotal += row.Points
			if row.Points > 0 {
				prevActive++
			}
		}
		stats.TotalPointsGain = stats.TotalPoints - prevTotal
		stats.ActiveMembersGain = active - prevActive
	}

	top := make([]types.Performer, 0, len(latest.Rows))
	for _, row := range latest.Rows {
		if row.Points <= 0 {
			continue
		}
		top = append(top, types.Performer{
			Name:   row.Name,
			Points: row.Points,
			Gain:   row.Points - prevPoints[row.Name],
		})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Points > top[j].Points })
	if len(top) > topPerformerCount {
		top = top[:topPerformerCount]
	}
	stats.TopPerformers = top
	return stats, nil
}

// RangeDelta computes each member's point gain between two exact snapshot
// dates. Members present only at the end count from zero.
func (s *Service) RangeDelta(ctx context.Context, startDate, endDate string) (types.RangeDelta, error) {
	startSnap, ok := s.store.ExactDate(startDate)
	if !ok {
		return types.RangeDelta{}, ErrStartDateNotFound
	}
	endSnap, ok := s.store.ExactDate(endDate)
	if !ok {
		return types.RangeDelta{}, ErrEndDateNotFound
	}

	startPoints := make(map[string]int64, len(startSnap.Rows))
	for _, row := range startSnap.Rows {
		startPoints[row.Name] = row.Points
	}

	out := types.RangeDelta{
		Success: true,
		DateRange: map[string]string{
			"start": startSnap.Date.Format(model.DateLayout),
			"end":   endSnap.Date.Format(model.DateLayout),
		},
	}
	for _, row := range endSnap.Rows {
		delta := row.Points - startPoints[row.Name]
		out.Members = append(out.Members, row.Name)
		out.Deltas = append(out.Deltas, delta)
		out.Total += delta
		if delta > 0 {
			out.Active++
		}
	}
	return out, nil
}

// Package overrides persists admin milestone decisions in a small JSON file.
//
// Tri-state semantics live in key presence: a stored true/false pins the
// milestone, an absent key defers to the computed evaluation. Nulls are never
// stored; clearing an override removes its key, and a member whose record
// becomes empty is pruned entirely.
package overrides

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/ibutrack/teamboard/internal/domain/types"
	"github.com/ibutrack/teamboard/pkg/logger"
	"github.com/ibutrack/teamboard/pkg/metrics"
)

// Milestone keys accepted in override updates.
const (
	KeyWeek1  = "week_1"
	KeyMonth1 = "month_1"
	KeyMonth3 = "month_3"
)

// Store reads and writes the overrides file.
type Store struct {
	path   string
	logger logger.Logger

	mu sync.Mutex
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store over the given file path. The file need not exist.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the current override map. A missing or unreadable file is an
// empty map, never an error; a corrupt overrides file must not take the
// probation page down.
func (s *Store) Load() types.OverrideMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() types.OverrideMap {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return types.OverrideMap{}
	}
	var m types.OverrideMap
	if err := json.Unmarshal(raw, &m); err != nil {
		if s.logger != nil {
			s.logger.Warn(context.Background(), "overrides file corrupt, treating as empty",
				logger.String("path", s.path), logger.Error(err))
		}
		return types.OverrideMap{}
	}
	if m == nil {
		m = types.OverrideMap{}
	}
	return m
}

// Apply merges one member's incoming override decisions and persists the
// result. Incoming keys carry the tri-state: true/false sets the override,
// nil clears it, an absent key leaves the stored value alone. remove drops
// the member's whole record. The member's resulting record is returned.
func (s *Store) Apply(member string, incoming map[string]*bool, remove bool) (types.Override, error) {
	if member == "" {
		return types.Override{}, ErrMissingMember
	}
	for key := range incoming {
		switch key {
		case KeyWeek1, KeyMonth1, KeyMonth3:
		default:
			return types.Override{}, ErrUnknownMilestone
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLocked()
	if remove {
		delete(data, member)
	} else {
		per := data[member]
		if v, ok := incoming[KeyWeek1]; ok {
			per.Week1 = copied(v)
		}
		if v, ok := incoming[KeyMonth1]; ok {
			per.Month1 = copied(v)
		}
		if v, ok := incoming[KeyMonth3]; ok {
			per.Month3 = copied(v)
		}
		if per.Empty() {
			delete(data, member)
		} else {
			data[member] = per
		}
	}

	if err := s.saveLocked(data); err != nil {
		return types.Override{}, err
	}
	metrics.RecordOverrideWrite()
	return data[member], nil
}

// saveLocked writes the map atomically: temp file in the same directory,
// then rename over the target.
func (s *Store) saveLocked(data types.OverrideMap) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func copied(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

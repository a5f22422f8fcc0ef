// Package probcache caches the computed probation report on disk, tagged
// with the snapshot count it was computed from. The count doubles as the
// invalidation key: snapshots are append-only, so an unchanged count means
// an unchanged report.
package probcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/ibutrack/teamboard/internal/domain/types"
	"github.com/ibutrack/teamboard/pkg/metrics"
)

// envelope is the on-disk shape: the report payload with the snapshot count
// tag alongside.
type envelope struct {
	CSVCount int `json:"_csv_count"`
	types.ProbationReport
}

// Cache stores one probation report per file.
type Cache struct {
	path string

	mu sync.Mutex
}

// New creates a Cache at the given file path.
func New(path string) *Cache {
	return &Cache{path: path}
}

// Get returns the cached report if it was computed from exactly
// snapshotCount snapshots. Any read or decode failure is a miss.
func (c *Cache) Get(snapshotCount int) (types.ProbationReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := os.ReadFile(c.path)
	if err != nil {
		metrics.RecordProbationCacheMiss()
		return types.ProbationReport{}, false
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.CSVCount != snapshotCount {
		metrics.RecordProbationCacheMiss()
		return types.ProbationReport{}, false
	}
	metrics.RecordProbationCacheHit()
	return env.ProbationReport, true
}

// Put overwrites the cache with a report computed from snapshotCount
// snapshots. Failures are returned but callers treat the cache as best
// effort.
func (c *Cache) Put(report types.ProbationReport, snapshotCount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	raw, err := json.Marshal(envelope{CSVCount: snapshotCount, ProbationReport: report})
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

package snapshots

import "github.com/ibutrack/teamboard/pkg/logger"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithTeamDir adds a team-rankings directory to the index.
func WithTeamDir(dir string) Option {
	return func(s *Store) {
		s.teamDir = dir
	}
}

// WithLogger sets the logger used by the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

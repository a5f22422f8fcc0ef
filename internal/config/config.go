// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir holds the dated member snapshot CSV exports.
	DataDir string `koanf:"data_dir"`

	// TeamDataDir holds the dated team ranking CSV exports. Empty disables
	// team series.
	TeamDataDir string `koanf:"team_data_dir"`

	// OverridesFile is the JSON file of admin milestone overrides.
	OverridesFile string `koanf:"overrides_file"`

	// CacheFile is the probation report cache location.
	CacheFile string `koanf:"cache_file"`

	// WatchEnabled reloads the snapshot index on filesystem changes.
	WatchEnabled bool `koanf:"watch_enabled"`

	// WatchDebounceMS is the quiet window after a change before reloading.
	WatchDebounceMS int `koanf:"watch_debounce_ms"`

	// Milestone point targets for the probation checkpoints.
	Week1Target  int64 `koanf:"week1_target"`
	Month1Target int64 `koanf:"month1_target"`
	Month3Target int64 `koanf:"month3_target"`

	// ComplianceTarget is the production required per 90-day window after
	// probation.
	ComplianceTarget int64 `koanf:"compliance_target"`
}

// New creates a Config with production defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9090",
		DataDir:          "data/member_snapshots",
		TeamDataDir:      "data/team_rankings",
		OverridesFile:    "data/probation_overrides.json",
		CacheFile:        "data/cache/probation_report.json",
		WatchEnabled:     true,
		WatchDebounceMS:  2000,
		Week1Target:      250_000,
		Month1Target:     1_000_000,
		Month3Target:     3_000_000,
		ComplianceTarget: 3_000_000,
	}
}

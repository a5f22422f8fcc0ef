package config

import (
	"errors"
)

// Sentinel errors returned by Load; callers match with errors.Is.
var (
	// ErrLoadConfig wraps failures reading or parsing a config source.
	ErrLoadConfig = errors.New("load config failed")
	// ErrInvalidConfig wraps validation failures after loading.
	ErrInvalidConfig = errors.New("invalid config")
)

package watch

import "errors"

// Sentinel kinds for watcher errors.
var (
	ErrNothingToWatch = errors.New("no watchable directories")
)

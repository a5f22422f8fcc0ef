package probation

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoSnapshots = errors.New("no member snapshots available")
)

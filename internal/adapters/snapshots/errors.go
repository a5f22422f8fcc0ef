package snapshots

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrMissingColumns = errors.New("snapshot file missing required columns")
)

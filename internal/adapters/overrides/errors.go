package overrides

import "errors"

// Sentinel kinds for override store errors.
var (
	ErrMissingMember    = errors.New("missing member name")
	ErrUnknownMilestone = errors.New("unknown milestone key")
)

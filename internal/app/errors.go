package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoTeamData        = errors.New("no team ranking data available")
	ErrStartDateNotFound = errors.New("no snapshot for start date")
	ErrEndDateNotFound   = errors.New("no snapshot for end date")
)

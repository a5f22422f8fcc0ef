package trend

import "errors"

var (
	ErrNoData       = errors.New("no snapshot data available")
	ErrEmptyRange   = errors.New("no snapshots in selected range")
	ErrBadStartDate = errors.New("invalid start_date")
	ErrBadEndDate   = errors.New("invalid end_date")
)

package analytics

import "errors"

var (
	// ErrInvalidDate marks a malformed startDate/endDate request value.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidFilter marks an out-of-domain filter value.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidPagination marks negative or zero pagination values.
	ErrInvalidPagination = errors.New("invalid pagination")
)

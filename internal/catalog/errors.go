package catalog

import "errors"

// Catalog errors.
var (
	// ErrNotReady is returned by reads issued before a successful Load.
	ErrNotReady = errors.New("catalog not loaded")

	// ErrAlreadyLoading is returned when Load is called while a load is in flight.
	ErrAlreadyLoading = errors.New("catalog load already in progress")

	// ErrInvalidRange is returned for ranges with start < 1, start > end or end > MaxID.
	ErrInvalidRange = errors.New("invalid id range")

	// ErrBadDetailURL is wrapped when an index record's URL carries no numeric id.
	ErrBadDetailURL = errors.New("detail url has no numeric id")
)

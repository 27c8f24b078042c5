package store

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrUnavailable marks a failure that survived the whole retry budget.
	ErrUnavailable = errors.New("store unavailable")
)

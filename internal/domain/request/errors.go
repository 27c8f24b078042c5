package request

import "errors"

// Sentinel kinds for request-level validation failures.
var (
	ErrInvalid     = errors.New("request validation failed")
	ErrCombination = errors.New("missing required field combination")
)

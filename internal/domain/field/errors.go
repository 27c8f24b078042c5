package field

import "errors"

// Sentinel kinds for field validation failures. Callers use errors.Is to
// classify a failure without parsing messages.
var (
	ErrRequired    = errors.New("this field is required")
	ErrEmptyValue  = errors.New("empty value is not allowed")
	ErrType        = errors.New("unexpected type")
	ErrFormat      = errors.New("invalid format")
	ErrRange       = errors.New("value out of range")
	ErrElementType = errors.New("unexpected element type")
)

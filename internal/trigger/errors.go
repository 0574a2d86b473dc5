package trigger

import "errors"

var (
	// ErrUnresolvedSetting is returned when a binding path refers to a
	// %Setting% that has no configured value.
	ErrUnresolvedSetting = errors.New("unresolved setting in binding path")

	// ErrInvalidBindingPath is returned when a binding path cannot be parsed.
	ErrInvalidBindingPath = errors.New("invalid binding path")

	// ErrInvalidEvent is returned when a storage event carries no usable
	// object data.
	ErrInvalidEvent = errors.New("invalid storage event")
)

package config

import "errors"

var (
	// ErrInvalidSettingsFile is returned when the local settings file exists
	// but cannot be parsed.
	ErrInvalidSettingsFile = errors.New("invalid settings file")

	// ErrInvalidOptionValue is returned when a configured value cannot be
	// converted to the type of the option it is bound to.
	ErrInvalidOptionValue = errors.New("invalid option value")

	// ErrValidation is returned when bound settings fail validation.
	ErrValidation = errors.New("validation failed")
)

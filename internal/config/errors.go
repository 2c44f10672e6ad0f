package config

import (
	"errors"
	"fmt"
)

// ErrInvalid matches every *ConfigurationError via errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// ConfigurationError reports a missing or malformed setting. It is fatal at
// startup; on hot reload the new file is rejected and the old one kept.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrInvalid }

func invalid(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Err: fmt.Errorf(format, args...)}
}

package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// InvalidConfigurationError reports an unknown or missing configuration value,
// it is returned before any search begins.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

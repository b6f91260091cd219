package model

import (
	"errors"
	"fmt"
)

// ConfigError reports a malformed, missing or internally inconsistent model resource.
// It is fatal at load time: nothing can be evaluated without a valid model.
type ConfigError struct {
	Resource string // "config", "parameters" or a file path
	Reason   string
	Err      error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Resource, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func configErrorf(resource string, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Resource: resource, Reason: fmt.Sprintf(format, args...)}
}

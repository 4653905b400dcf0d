package routes

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Lookup for paths that are not registered.
var ErrNotFound = errors.New("route not found")

// ErrPending is returned by Task.Result while a load is still running.
var ErrPending = errors.New("route load pending")

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeDuplicateRoute indicates a path registered twice.
	ErrCodeDuplicateRoute ConfigErrorCode = "DUPLICATE_ROUTE"

	// ErrCodeInvalidRoute indicates a path that cannot be a logical path.
	ErrCodeInvalidRoute ConfigErrorCode = "INVALID_ROUTE"

	// ErrCodeManifestInvalid indicates a manifest that could not be read or parsed.
	ErrCodeManifestInvalid ConfigErrorCode = "MANIFEST_INVALID"
)

// ConfigError is a fatal route configuration problem detected at startup.
type ConfigError struct {
	Code    ConfigErrorCode
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path=%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is (or wraps) a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsDuplicate reports whether err is a duplicate registration.
func IsDuplicate(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeDuplicateRoute
	}
	return false
}

package router

import (
	"errors"
	"fmt"
)

var (
	// ErrNotActive is wrapped by misuse errors for calls outside the Active state.
	ErrNotActive = errors.New("router not active")

	// ErrAlreadyStarted is wrapped when Start is called twice.
	ErrAlreadyStarted = errors.New("router already started")

	// ErrInvalidTarget is wrapped when a navigation target is not a logical location.
	ErrInvalidTarget = errors.New("invalid navigation target")
)

// MisuseError reports a programming error in how the router is driven.
// It is not user-recoverable.
type MisuseError struct {
	Op     string // "start", "navigate", "replace"
	Target string
	Err    error
}

func (e *MisuseError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("router: %s %q: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("router: %s: %v", e.Op, e.Err)
}

func (e *MisuseError) Unwrap() error {
	return e.Err
}

// IsMisuse reports whether err is (or wraps) a *MisuseError.
func IsMisuse(err error) bool {
	var me *MisuseError
	return errors.As(err, &me)
}

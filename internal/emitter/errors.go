package emitter

import (
	"errors"
	"fmt"
)

// IOError is a filesystem failure during emission. Emitted counts the
// route documents written before the failure.
type IOError struct {
	Op      string // "read", "mkdir", "write"
	Path    string
	Emitted int
	Err     error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("emit: %s %s (after %d file(s)): %v", e.Op, e.Path, e.Emitted, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsIOError reports whether err is (or wraps) an *IOError.
func IsIOError(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}

package location

import (
	"errors"
	"fmt"
)

// DecodeError reports a raw location that could not be decoded.
// Callers recover by routing to Root.
type DecodeError struct {
	Raw    RawLocation
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode location %q: %s", e.Raw.Pathname+e.Raw.Search, e.Reason)
}

// IsDecodeError reports whether err is (or wraps) a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

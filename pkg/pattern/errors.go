package pattern

import (
	"errors"
	"fmt"
)

// ErrInvalid is matched by every compilation error.
var ErrInvalid = errors.New("pattern: invalid route pattern")

// Error describes why a pattern failed to compile.
type Error struct {
	Pattern string
	Reason  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pattern: %q: %s", e.Pattern, e.Reason)
}

// Is reports whether target is ErrInvalid.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

func newError(pattern, reason string) *Error {
	return &Error{Pattern: pattern, Reason: reason}
}

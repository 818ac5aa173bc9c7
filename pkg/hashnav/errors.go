package hashnav

import "errors"

var (
	ErrInvalidPattern = errors.New("hashnav: invalid pattern")
	ErrNilHandler     = errors.New("hashnav: nil handler")
)

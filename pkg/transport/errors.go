package transport

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig      = errors.New("transport: invalid configuration")
	ErrUnexpectedStatus   = errors.New("transport: unexpected status")
	ErrTooLarge           = errors.New("transport: resource exceeds size limit")
	ErrAccessDenied       = errors.New("transport: access denied")
	ErrEmptyConnectionURL = errors.New("transport: empty connection URL")
	ErrFailedToParseURL   = errors.New("transport: failed to parse connection URL")
	ErrConnectionFailed   = errors.New("transport: failed to establish connection")
	ErrHealthcheckFailed  = errors.New("transport: healthcheck failed")
	ErrSetDialect         = errors.New("transport: failed to set migration dialect")
	ErrApplyMigrations    = errors.New("transport: failed to apply migrations")
)

// StatusError reports a non-success HTTP response other than 404.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transport: GET %s: status %d", e.URL, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

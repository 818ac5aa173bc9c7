package resource

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is returned for empty names or names with empty segments.
	ErrInvalidName = errors.New("resource: invalid name")

	// ErrFetch is matched by every transport failure.
	ErrFetch = errors.New("resource: fetch failed")

	// ErrEvaluation is matched by every parse or evaluation failure.
	ErrEvaluation = errors.New("resource: evaluation failed")

	// ErrNotFound is returned by transports when the resource does not exist.
	ErrNotFound = errors.New("resource: not found")
)

// FetchError reports a transport failure for a named resource.
type FetchError struct {
	Err  error
	Kind Kind
	Name string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("resource: fetch %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetch, e.Err}
}

// EvaluationError reports that fetched source could not be turned into a handler.
type EvaluationError struct {
	Err  error
	Kind Kind
	Name string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("resource: evaluate %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *EvaluationError) Unwrap() []error {
	return []error{ErrEvaluation, e.Err}
}

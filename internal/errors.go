package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrNextCalled is returned when a handler calls next more than once.
	ErrNextCalled = errors.New("sfap: next called more than once")

	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("sfap: application closed")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("sfap: application already started")
)

// ArgumentError reports a missing or invalid constructor or registration argument.
type ArgumentError struct {
	Err    error
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sfap: invalid %s: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("sfap: invalid %s: %s", e.Name, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sfap: handler panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

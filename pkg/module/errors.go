package module

import "errors"

var (
	// ErrExecution indicates the module source failed to evaluate or a call raised an error.
	ErrExecution = errors.New("module: execution failed")

	// ErrNotFunction indicates Call targeted an export that is not a function.
	ErrNotFunction = errors.New("module: export is not a function")

	// ErrClosed indicates the module state was released.
	ErrClosed = errors.New("module: closed")
)

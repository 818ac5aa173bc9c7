package module

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single evaluation or call.
const DefaultTimeout = 5 * time.Second

// Exports is the contract a loaded module exposes.
// Implementations are safe for concurrent use.
type Exports interface {
	// Call invokes the exported function fn with args.
	// An empty fn calls the export value itself.
	Call(ctx context.Context, fn string, args ...any) ([]any, error)

	// Get returns the converted export named name.
	Get(name string) (any, bool)

	// Keys lists export names in sorted order.
	Keys() []string

	// Close releases the module's resources.
	Close() error
}

// Function is an exported module function.
type Function func(ctx context.Context, args ...any) ([]any, error)

// Loader evaluates module source.
type Loader interface {
	Load(ctx context.Context, name string, source []byte) (Exports, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, name string, source []byte) (Exports, error)

func (f LoaderFunc) Load(ctx context.Context, name string, source []byte) (Exports, error) {
	return f(ctx, name, source)
}

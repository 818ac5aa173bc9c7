package middlewares_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sfap/internal"
)

// newTestRequest builds a request for rawURL with a background context.
func newTestRequest(t *testing.T, rawURL string) *internal.Request {
	t.Helper()

	r, err := internal.NewRequest(context.Background(), rawURL)
	require.NoError(t, err)
	return r
}

// run dispatches r through handlers in order.
func run(t *testing.T, r *internal.Request, handlers ...internal.RouteHandler) error {
	t.Helper()

	var p internal.Pipeline[*internal.Request]
	for _, h := range handlers {
		require.NoError(t, p.Use(h))
	}
	return p.Run(r)
}

func terminal(fn func(r *internal.Request) error) internal.RouteHandler {
	return func(r *internal.Request, _ internal.Next) error {
		return fn(r)
	}
}

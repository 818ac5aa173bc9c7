package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/sfap/internal"
)

// DefaultTimeout is the default navigation timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that bounds the rest of the pipeline with a
// deadline on the request context. Handlers observe it through r.Context(),
// which the view and module fetches already honor.
//
// A TimeoutError is returned when the deadline passed and the pipeline either
// failed with a context error or ignored the deadline.
func Timeout(timeout time.Duration) internal.RouteHandler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(r *internal.Request, next internal.Next) error {
		parent := r.Context()
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		r.SetContext(ctx)
		err := next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
			if err == nil || errors.Is(err, context.DeadlineExceeded) {
				return &TimeoutError{Path: r.Pathname, Duration: timeout}
			}
		}
		return err
	}
}

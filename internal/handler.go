package internal

import "context"

// Next continues a pipeline run with the following handler and returns its
// error. It may be called at most once per handler invocation.
type Next func() error

// Handler is a pipeline step. Returning without calling next halts the run.
//
// Example:
//
//	func Auth(r *sfap.Request, next sfap.Next) error {
//	    if r.Query.Get("token") == "" {
//	        return nil // stop here
//	    }
//	    return next()
//	}
type Handler[C any] func(c C, next Next) error

// RouteHandler handles route-pipeline requests.
type RouteHandler = Handler[*Request]

// HashHandler handles raw navigation notifications.
type HashHandler = Handler[*Navigation]

// ErrorHandler receives errors and recovered panics from pipeline runs.
type ErrorHandler func(ctx context.Context, err error)

// Package resource lazily fetches, parses and memoizes named remote resources.
//
// A [Cache] is bound to one [Kind] (views or modules), a [Transport] that
// retrieves raw source, and a [ParseFunc] that turns source into a handler.
//
// # Caching semantics
//
//   - Logical names use dots as namespace separators: "users.profile" is
//     fetched from "/view/users/profile".
//   - A resolved handler is memoized for the lifetime of the Cache. Every
//     later Fetch returns the same value without touching the transport.
//   - Concurrent misses for the same name share one transport request
//     (single-flight via golang.org/x/sync/singleflight).
//   - Failures are never memoized. The next Fetch retries from scratch.
//
// Once issued, a transport request runs to completion even if the caller
// that started it gives up; waiting callers stop waiting when their own
// context is done.
//
// # Usage
//
//	views := resource.New(resource.View, transport, func(ctx context.Context, name string, src []byte) (view.Template, error) {
//	    return compiler.Compile(name, string(src))
//	})
//	tpl, err := views.Fetch(ctx, "users.profile")
//
// # Errors
//
// Transport failures are reported as [*FetchError] and parse failures as
// [*EvaluationError]. Use [errors.Is] with [ErrFetch] or [ErrEvaluation].
package resource

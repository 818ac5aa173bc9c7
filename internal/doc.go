// Package internal provides the core types and implementation of sfap.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/sfap" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns the route and hash pipelines, the view and module caches and the settings
//   - Pipeline: an append-only handler sequence; each run walks a snapshot with its own cursor
//   - Dispatcher: turns navigation events into pipeline runs, one at a time, in arrival order
//   - Request: the parsed target of one navigation, with route params attached on match
//   - Navigation: the raw to/from pair seen by the hash pipeline
//   - Route: a compiled path pattern bound to a handler
//
// # Dispatch
//
// A navigation notification first runs the hash pipeline with the raw values,
// then builds a Request from the target (resolved against the application
// location) and runs the route pipeline. Init runs only the route pipeline and
// does nothing while no route handler is registered.
//
// Handler errors and panics never escape a dispatch: they are passed to the
// ErrorHandler, which logs them unless WithErrorHandler replaces it.
//
// Navigations raised while a dispatch is running are queued and run after it,
// so a handler may call SetHash or Navigate without deadlocking. A handler
// that hands next to another goroutine continues outside this ordering.
package internal

package sfap

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/sfap/internal"
	"github.com/dmitrymomot/sfap/pkg/logger"
	"github.com/dmitrymomot/sfap/pkg/module"
	"github.com/dmitrymomot/sfap/pkg/resource"
	"github.com/dmitrymomot/sfap/pkg/view"
)

// App is the navigation dispatch shell.
// Create with New or CreateApp.
type App = internal.App

// Option configures the application.
type Option = internal.Option

// Request is the parsed navigation target passed to route handlers.
type Request = internal.Request

// Navigation is the from/to pair passed to hash handlers.
type Navigation = internal.Navigation

// Next continues the pipeline. Calling it more than once returns ErrNextCalled.
type Next = internal.Next

// Handler is a pipeline step over context C.
type Handler[C any] = internal.Handler[C]

// RouteHandler handles a dispatched Request.
type RouteHandler = internal.RouteHandler

// HashHandler observes a hash change.
type HashHandler = internal.HashHandler

// ErrorHandler receives errors returned by or recovered from handlers.
type ErrorHandler = internal.ErrorHandler

// Route is a compiled pattern bound to a handler.
type Route = internal.Route

// State is the dispatcher state.
type State = internal.State

// NavigationSource delivers hash changes to the application.
type NavigationSource = internal.NavigationSource

// Locator reports the current location of a navigation source.
type Locator = internal.Locator

// ReadySignal fires once the host environment is ready.
type ReadySignal = internal.ReadySignal

// ArgumentError reports a missing or invalid argument.
type ArgumentError = internal.ArgumentError

// PanicError wraps a value recovered from a panicking handler.
type PanicError = internal.PanicError

// ContextExtractor extracts a log attribute from context.
type ContextExtractor = logger.ContextExtractor

// Dispatcher states.
const (
	Idle        = internal.Idle
	Dispatching = internal.Dispatching
)

// DebugSetting is the setting that enables diagnostic logging.
const DebugSetting = internal.DebugSetting

// Sentinel errors.
var (
	ErrNextCalled     = internal.ErrNextCalled
	ErrClosed         = internal.ErrClosed
	ErrAlreadyStarted = internal.ErrAlreadyStarted
	ErrNoTransport    = internal.ErrNoTransport
)

// New creates a new application with the given options.
//
// Example:
//
//	app, err := sfap.New(
//	    sfap.WithName("shop"),
//	    sfap.WithLocation("https://example.com/#/products"),
//	    sfap.WithLogger(),
//	)
func New(opts ...Option) (*App, error) {
	return internal.New(opts...)
}

// CreateApp creates an application with a name and location.
// An empty name generates one; an empty location uses the navigation source.
func CreateApp(name, location string) (*App, error) {
	return internal.New(internal.WithName(name), internal.WithLocation(location))
}

// NewRoute compiles pattern p and binds it to h.
func NewRoute(p string, h RouteHandler) (*Route, error) {
	return internal.NewRoute(p, h)
}

// NewRequest parses an absolute or rooted URL into a Request.
func NewRequest(ctx context.Context, rawURL string) (*Request, error) {
	return internal.NewRequest(ctx, rawURL)
}

// LogErrors returns the default error handler, which logs every error.
func LogErrors(log *slog.Logger) ErrorHandler {
	return internal.LogErrors(log)
}

// WithName sets the application name.
func WithName(name string) Option {
	return internal.WithName(name)
}

// WithLocation sets the location relative navigation targets resolve against.
func WithLocation(location string) Option {
	return internal.WithLocation(location)
}

// WithLogger logs JSON to stderr with optional context extractors.
//
// Example:
//
//	sfap.New(
//	    sfap.WithLogger(middlewares.NavigationIDExtractor()),
//	)
func WithLogger(extractors ...ContextExtractor) Option {
	return internal.WithLogger(extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithTransport sets the transport views and modules are fetched with.
//
// Example:
//
//	sfap.New(
//	    sfap.WithTransport(transport.NewFS(os.DirFS("./site"))),
//	)
func WithTransport(t resource.Transport) Option {
	return internal.WithTransport(t)
}

// WithCompiler sets the view template compiler.
func WithCompiler(c view.Compiler) Option {
	return internal.WithCompiler(c)
}

// WithLoader sets the module loader.
func WithLoader(l module.Loader) Option {
	return internal.WithLoader(l)
}

// WithNavigationSource sets where hash changes come from.
func WithNavigationSource(src NavigationSource) Option {
	return internal.WithNavigationSource(src)
}

// WithReadySignal sets the signal Start waits on before running ready hooks.
func WithReadySignal(s ReadySignal) Option {
	return internal.WithReadySignal(s)
}

// WithErrorHandler sets the handler for dispatch errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithFetchObserver registers a callback for every view and module fetch.
func WithFetchObserver(fn func(resource.FetchEvent)) Option {
	return internal.WithFetchObserver(fn)
}

// WithSettings enables the named settings at construction.
func WithSettings(names ...string) Option {
	return internal.WithSettings(names...)
}

// Param returns a route parameter converted to T.
// Returns the zero value when missing or not convertible.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string) T {
	return internal.Param[T](r, name)
}

// Query returns a query parameter converted to T.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string) T {
	return internal.Query[T](r, name)
}

// QueryDefault returns a query parameter converted to T, or defaultValue.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string, defaultValue T) T {
	return internal.QueryDefault(r, name, defaultValue)
}

// Value returns a request value set by middleware, typed as T.
func Value[T any](r *Request, key any) T {
	return internal.Value[T](r, key)
}

package internal

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/dmitrymomot/sfap/pkg/logger"
	"github.com/dmitrymomot/sfap/pkg/module"
	"github.com/dmitrymomot/sfap/pkg/resource"
	"github.com/dmitrymomot/sfap/pkg/view"
)

// Option configures the application.
type Option func(*App)

// NavigationSource reports navigation changes and accepts programmatic ones.
// *hashnav.Router implements it.
type NavigationSource interface {
	OnChange(pattern string, fn func(to, from string)) (cancel func(), err error)
	SetHash(value string)
}

// Locator is implemented by navigation sources that know the current location.
type Locator interface {
	Location() string
}

// hashReporter is implemented by navigation sources that know the current hash.
type hashReporter interface {
	Current() string
}

// ReadySignal invokes callbacks once the environment is ready.
type ReadySignal interface {
	OnReady(fn func())
}

// WithName sets the application name. Default: "app-<hex>".
func WithName(name string) Option {
	return func(a *App) {
		if name != "" {
			a.name = name
		}
	}
}

// WithLocation sets the location relative navigation targets resolve against.
// Default: the navigation source's location, else "/".
func WithLocation(location string) Option {
	return func(a *App) {
		if location == "" {
			return
		}
		u, err := url.Parse(location)
		if err != nil {
			a.optErrs = append(a.optErrs, &ArgumentError{Name: "location", Reason: fmt.Sprintf("cannot parse %q", location), Err: err})
			return
		}
		a.location = u
	}
}

// WithLogger logs JSON to stderr with optional context extractors. Debug
// records are written only while the "debug" setting is enabled.
//
// Example:
//
//	sfap.New(
//	    sfap.WithLogger(middlewares.NavigationIDExtractor()),
//	)
func WithLogger(extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.baseLogger = logger.New(logger.Options{Level: slog.LevelDebug}, extractors...)
	}
}

// WithCustomLogger sets a fully custom logger. Debug records still pass only
// while the "debug" setting is enabled. Default: no output.
func WithCustomLogger(log *slog.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.baseLogger = log
		}
	}
}

// WithTransport sets where views and modules are fetched from.
// Default: HTTP against the location's origin when it is an http(s) URL.
func WithTransport(t resource.Transport) Option {
	return func(a *App) {
		a.transport = t
	}
}

// WithCompiler sets the template compiler. Default: view.New().
func WithCompiler(c view.Compiler) Option {
	return func(a *App) {
		a.compiler = c
	}
}

// WithLoader sets the module loader. Default: module.NewLua().
func WithLoader(l module.Loader) Option {
	return func(a *App) {
		a.loader = l
	}
}

// WithNavigationSource replaces the default in-process hash router.
func WithNavigationSource(src NavigationSource) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithReadySignal sets the readiness signal. Default: ready hooks fire on Start.
func WithReadySignal(s ReadySignal) Option {
	return func(a *App) {
		a.ready = s
	}
}

// WithErrorHandler receives handler errors and recovered panics from
// dispatches. Default: logged at error level.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithFetchObserver is notified of every transport round trip for views
// and modules.
func WithFetchObserver(fn func(resource.FetchEvent)) Option {
	return func(a *App) {
		if fn != nil {
			a.observers = append(a.observers, fn)
		}
	}
}

// WithSettings enables the named settings at construction.
func WithSettings(names ...string) Option {
	return func(a *App) {
		a.initialSettings = append(a.initialSettings, names...)
	}
}

package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sfap/pkg/hashnav"
	"github.com/dmitrymomot/sfap/pkg/logger"
	"github.com/dmitrymomot/sfap/pkg/module"
	"github.com/dmitrymomot/sfap/pkg/resource"
	"github.com/dmitrymomot/sfap/pkg/transport"
	"github.com/dmitrymomot/sfap/pkg/view"
)

// DebugSetting is the reserved setting that switches debug logging.
const DebugSetting = "debug"

// ErrNoTransport is returned by fetches when no transport is configured.
var ErrNoTransport = errors.New("sfap: no transport configured")

// App owns the route and hash pipelines, the view and module caches and the
// application settings.
type App struct {
	location     *url.URL
	baseLogger   *slog.Logger
	log          *slog.Logger
	level        *slog.LevelVar
	transport    resource.Transport
	compiler     view.Compiler
	loader       module.Loader
	source       NavigationSource
	ready        ReadySignal
	errorHandler ErrorHandler
	dispatcher   *Dispatcher
	views        *resource.Cache[view.Template]
	modules      *resource.Cache[module.Exports]
	routes       Pipeline[*Request]
	hash         Pipeline[*Navigation]
	settings     map[string]bool
	unsubscribe  func()
	readyFns     []func()

	name            string
	optErrs         []error
	observers       []func(resource.FetchEvent)
	initialSettings []string

	mu      sync.RWMutex
	started bool
	closed  bool
}

// New creates an application.
//
// Example:
//
//	app, err := sfap.New(
//	    sfap.WithName("shop"),
//	    sfap.WithTransport(transport.Dir("./site")),
//	)
func New(opts ...Option) (*App, error) {
	a := &App{
		baseLogger: logger.NewNope(),
		level:      new(slog.LevelVar),
		settings:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	if len(a.optErrs) > 0 {
		return nil, errors.Join(a.optErrs...)
	}

	if a.name == "" {
		a.name = "app-" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	if a.source == nil {
		loc := "/"
		if a.location != nil {
			loc = a.location.String()
		}
		a.source = hashnav.New(loc)
	}
	if a.location == nil {
		a.location = &url.URL{Path: "/"}
		if l, ok := a.source.(Locator); ok {
			if u, err := url.Parse(l.Location()); err == nil {
				a.location = u
			}
		}
	}

	a.level.Set(slog.LevelInfo)
	a.log = slog.New(logger.NewLevelGate(a.baseLogger.Handler(), a.level)).With(slog.String("app", a.name))

	if a.errorHandler == nil {
		a.errorHandler = LogErrors(a.log)
	}
	if a.compiler == nil {
		a.compiler = view.New()
	}
	if a.loader == nil {
		a.loader = module.NewLua()
	}
	if a.transport == nil {
		a.transport = a.defaultTransport()
	}

	observe := resource.WithObserver(a.observe)
	a.views = resource.New(resource.View, a.transport, a.compileView, observe)
	a.modules = resource.New(resource.Module, a.transport, a.loader.Load, observe)
	a.dispatcher = NewDispatcher(&a.routes, &a.hash, a.baseURL, a.errorHandler)

	for _, s := range a.initialSettings {
		a.Enable(s)
	}
	return a, nil
}

func (a *App) defaultTransport() resource.Transport {
	if a.location.Scheme == "http" || a.location.Scheme == "https" {
		origin := (&url.URL{Scheme: a.location.Scheme, Host: a.location.Host}).String()
		if t, err := transport.NewHTTP(origin); err == nil {
			return t
		}
	}
	return resource.TransportFunc(func(context.Context, resource.Kind, string) ([]byte, error) {
		return nil, ErrNoTransport
	})
}

func (a *App) compileView(_ context.Context, name string, source []byte) (view.Template, error) {
	return a.compiler.Compile(name, string(source))
}

func (a *App) observe(ev resource.FetchEvent) {
	if ev.Err != nil {
		a.log.Debug("resource fetch failed",
			slog.String("kind", ev.Kind.String()),
			slog.String("name", ev.Name),
			slog.Any("error", ev.Err),
		)
	} else {
		a.log.Debug("resource fetched",
			slog.String("kind", ev.Kind.String()),
			slog.String("name", ev.Name),
			slog.Duration("duration", ev.Duration),
		)
	}
	for _, fn := range a.observers {
		fn(ev)
	}
}

func (a *App) baseURL() *url.URL {
	return a.location
}

// Name returns the application name.
func (a *App) Name() string {
	return a.name
}

// Location returns the location relative targets resolve against.
func (a *App) Location() string {
	return a.location.String()
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.log
}

// Query returns the parsed query string of the application location.
func (a *App) Query() url.Values {
	return a.location.Query()
}

// QueryValue returns the first value of the location query parameter name.
func (a *App) QueryValue(name string) string {
	return a.location.Query().Get(name)
}

// Use appends h to the route pipeline.
func (a *App) Use(h RouteHandler) error {
	return a.routes.Use(h)
}

// Route appends a handler that runs h when the request path matches p.
// Non-matching requests fall through to the next handler.
//
// Example:
//
//	app.Route("/users/:id", func(r *sfap.Request, next sfap.Next) error {
//	    html, err := app.View(r.Context(), "users.profile", map[string]any{"id": r.Param("id")})
//	    ...
//	})
func (a *App) Route(p string, h RouteHandler) error {
	rt, err := NewRoute(p, h)
	if err != nil {
		return err
	}
	return a.routes.Use(rt.Handle)
}

// Match is an alias for Route.
func (a *App) Match(p string, h RouteHandler) error {
	return a.Route(p, h)
}

// UseHash appends h to the hash pipeline, which sees every navigation
// regardless of route matches.
func (a *App) UseHash(h HashHandler) error {
	return a.hash.Use(h)
}

// SetHash navigates the navigation source to value.
func (a *App) SetHash(value string) {
	a.source.SetHash(value)
}

// View renders the view name with data. The compiled template is fetched
// once and reused.
func (a *App) View(ctx context.Context, name string, data any) (string, error) {
	tpl, err := a.views.Fetch(ctx, name)
	if err != nil {
		return "", err
	}
	return tpl.Render(data)
}

// ViewAsync renders in a new goroutine and passes the result to fn.
// fn is never called synchronously, even on a cache hit.
func (a *App) ViewAsync(ctx context.Context, name string, data any, fn func(string, error)) {
	go func() {
		fn(a.View(ctx, name, data))
	}()
}

// Module returns the exports of the module name, loading it once.
func (a *App) Module(ctx context.Context, name string) (module.Exports, error) {
	return a.modules.Fetch(ctx, name)
}

// ModuleAsync loads in a new goroutine and passes the result to fn.
func (a *App) ModuleAsync(ctx context.Context, name string, fn func(module.Exports, error)) {
	go func() {
		fn(a.Module(ctx, name))
	}()
}

// Template compiles source with the application's compiler, bypassing the cache.
func (a *App) Template(name, source string) (view.Template, error) {
	return a.compiler.Compile(name, source)
}

// Enable turns a setting on. "debug" enables debug logging instead of
// being stored.
func (a *App) Enable(setting string) {
	if setting == DebugSetting {
		a.level.Set(slog.LevelDebug)
		return
	}
	a.mu.Lock()
	a.settings[setting] = true
	a.mu.Unlock()
}

// Disable turns a setting off.
func (a *App) Disable(setting string) {
	if setting == DebugSetting {
		a.level.Set(slog.LevelInfo)
		return
	}
	a.mu.Lock()
	a.settings[setting] = false
	a.mu.Unlock()
}

// Enabled reports whether a setting is on.
func (a *App) Enabled(setting string) bool {
	if setting == DebugSetting {
		return a.level.Level() <= slog.LevelDebug
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings[setting]
}

// Debug logs a diagnostic message when the "debug" setting is enabled.
func (a *App) Debug(msg string, args ...any) {
	a.log.Debug(msg, args...)
}

// Ready registers fn to run once the ready signal fires.
func (a *App) Ready(fn func()) error {
	if fn == nil {
		return &ArgumentError{Name: "ready callback", Reason: "must not be nil"}
	}
	if a.ready != nil {
		a.ready.OnReady(fn)
		return nil
	}
	a.mu.Lock()
	if !a.started {
		a.readyFns = append(a.readyFns, fn)
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()
	go fn()
	return nil
}

// Start subscribes to the navigation source, fires ready callbacks and
// dispatches the current location. When the source reports a current hash,
// that hash is dispatched instead, the same way later changes are. ctx
// becomes the parent of every request context.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	switch {
	case a.closed:
		a.mu.Unlock()
		return ErrClosed
	case a.started:
		a.mu.Unlock()
		return ErrAlreadyStarted
	}
	cancel, err := a.source.OnChange(".*", a.dispatcher.Navigate)
	if err != nil {
		a.mu.Unlock()
		return fmt.Errorf("sfap: subscribe to navigation source: %w", err)
	}
	a.unsubscribe = cancel
	a.started = true
	fns := a.readyFns
	a.readyFns = nil
	a.mu.Unlock()

	a.dispatcher.SetContext(ctx)
	for _, fn := range fns {
		fn()
	}
	target := a.Location()
	if h, ok := a.source.(hashReporter); ok {
		if hash := h.Current(); hash != "" {
			target = rootHash(hash)
		}
	}
	a.log.DebugContext(ctx, "application started",
		slog.String("location", a.Location()),
		slog.String("target", target),
	)
	return a.Init(target)
}

// Close unsubscribes from the navigation source. Loaded modules are released.
func (a *App) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	cancel := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	var errs []error
	a.modules.Range(func(_ string, e module.Exports) bool {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}

// Init dispatches target through the route pipeline. It is a no-op when no
// route handler is registered. An empty target dispatches the location.
func (a *App) Init(target string) error {
	if target == "" {
		target = a.Location()
	}
	return a.dispatcher.Init(target)
}

// Navigate dispatches a navigation notification as if the navigation source
// had reported it.
func (a *App) Navigate(to, from string) {
	a.dispatcher.Navigate(to, from)
}

// State returns the dispatcher state.
func (a *App) State() State {
	return a.dispatcher.State()
}

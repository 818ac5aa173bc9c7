package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
)

// State is the dispatcher state.
type State int32

const (
	Idle State = iota
	Dispatching
)

func (s State) String() string {
	if s == Dispatching {
		return "dispatching"
	}
	return "idle"
}

type event struct {
	to      string
	from    string
	initial bool
}

// Dispatcher turns navigation events into pipeline runs.
//
// Runs are serialized in arrival order. The goroutine that finds the
// dispatcher idle drains the queue; events raised while a run is in progress,
// including those raised by handlers of that run, are queued and the call
// returns immediately.
type Dispatcher struct {
	routes   *Pipeline[*Request]
	hash     *Pipeline[*Navigation]
	location func() *url.URL
	onError  ErrorHandler
	ctx      context.Context
	queue    []event
	state    atomic.Int32
	running  bool
	mu       sync.Mutex
}

// NewDispatcher creates a dispatcher over both pipelines. Relative targets
// are resolved against location(). onError receives handler errors and
// recovered panics.
func NewDispatcher(routes *Pipeline[*Request], hash *Pipeline[*Navigation], location func() *url.URL, onError ErrorHandler) *Dispatcher {
	if onError == nil {
		onError = func(context.Context, error) {}
	}
	return &Dispatcher{
		routes:   routes,
		hash:     hash,
		location: location,
		onError:  onError,
		ctx:      context.Background(),
	}
}

// SetContext sets the parent context of future requests.
func (d *Dispatcher) SetContext(ctx context.Context) {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()
}

// State returns Dispatching while a run is in progress or queued.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Init dispatches rawURL through the route pipeline. It is a no-op when no
// route handler is registered. Only URL parse errors are returned; handler
// errors go to the error handler.
func (d *Dispatcher) Init(rawURL string) error {
	if d.routes.Len() == 0 {
		return nil
	}
	if _, err := url.Parse(rawURL); err != nil {
		return &ArgumentError{Name: "url", Reason: "cannot parse init target", Err: err}
	}
	d.enqueue(event{to: rawURL, initial: true})
	return nil
}

// Navigate dispatches a navigation notification: the hash pipeline sees the
// raw values, then the route pipeline runs for a Request built from to.
// A relative to is rooted at the location's origin, so "users/42" and
// "/users/42" dispatch the same pathname whatever the location path is.
func (d *Dispatcher) Navigate(to, from string) {
	d.enqueue(event{to: to, from: from})
}

func (d *Dispatcher) enqueue(ev event) {
	d.mu.Lock()
	d.queue = append(d.queue, ev)
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.state.Store(int32(Dispatching))

	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue = d.queue[1:]
		ctx := d.ctx
		d.mu.Unlock()

		d.dispatch(ctx, next)

		d.mu.Lock()
	}

	d.queue = nil
	d.running = false
	d.state.Store(int32(Idle))
	d.mu.Unlock()
}

func (d *Dispatcher) dispatch(ctx context.Context, ev event) {
	if !ev.initial && d.hash.Len() > 0 {
		nav := &Navigation{ctx: ctx, To: ev.to, From: ev.from}
		if err := guard(func() error { return d.hash.Run(nav) }); err != nil {
			d.onError(ctx, err)
		}
	}

	if d.routes.Len() == 0 {
		return
	}
	target := ev.to
	if !ev.initial {
		target = rootHash(target)
	}
	req, err := newRequest(ctx, d.location(), target)
	if err != nil {
		d.onError(ctx, err)
		return
	}
	if err := guard(func() error { return d.routes.Run(req) }); err != nil {
		d.onError(req.Context(), err)
	}
}

// rootHash prefixes a relative hash path with "/". Absolute URLs, rooted
// paths and query or fragment only values are returned unchanged.
func rootHash(v string) string {
	u, err := url.Parse(v)
	if err != nil || u.IsAbs() || u.Host != "" || u.Path == "" || strings.HasPrefix(u.Path, "/") {
		return v
	}
	return "/" + v
}

// guard converts a panic in fn into a *PanicError.
func guard(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// LogErrors returns an ErrorHandler that logs at error level.
func LogErrors(log *slog.Logger) ErrorHandler {
	return func(ctx context.Context, err error) {
		attrs := []any{slog.Any("error", err)}
		var pe *PanicError
		if errors.As(err, &pe) {
			attrs = append(attrs, slog.String("stack", string(pe.Stack)))
		}
		log.ErrorContext(ctx, "navigation dispatch failed", attrs...)
	}
}

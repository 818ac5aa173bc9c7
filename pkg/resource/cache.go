package resource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ParseFunc turns fetched source into a handler.
type ParseFunc[H any] func(ctx context.Context, name string, source []byte) (H, error)

// FetchEvent describes one transport round trip.
type FetchEvent struct {
	Err      error
	Kind     Kind
	Name     string
	Path     string
	Duration time.Duration
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	observer func(FetchEvent)
}

// WithObserver registers a callback invoked after every transport request,
// successful or not. Cache hits are not reported.
func WithObserver(fn func(FetchEvent)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// Cache memoizes parsed handlers per logical name. It is safe for concurrent use.
type Cache[H any] struct {
	transport Transport
	parse     ParseFunc[H]
	resolved  map[string]H
	opts      options
	group     singleflight.Group
	kind      Kind
	mu        sync.RWMutex
}

// New creates a cache for kind.
func New[H any](kind Kind, t Transport, parse ParseFunc[H], opts ...Option) *Cache[H] {
	c := &Cache[H]{
		kind:      kind,
		transport: t,
		parse:     parse,
		resolved:  make(map[string]H),
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// Kind returns the resource kind served by the cache.
func (c *Cache[H]) Kind() Kind {
	return c.kind
}

// Cached returns the resolved handler for name, if any.
func (c *Cache[H]) Cached(name string) (H, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.resolved[name]
	return h, ok
}

// Len returns the number of resolved entries.
func (c *Cache[H]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.resolved)
}

// Range calls fn for every resolved entry until fn returns false.
// fn must not call back into the cache.
func (c *Cache[H]) Range(fn func(name string, h H) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, h := range c.resolved {
		if !fn(name, h) {
			return
		}
	}
}

type flightResult[H any] struct {
	handler H
}

// Fetch returns the handler for name, fetching and parsing it on first use.
func (c *Cache[H]) Fetch(ctx context.Context, name string) (H, error) {
	var zero H

	if h, ok := c.Cached(name); ok {
		return h, nil
	}

	path, err := Path(c.kind, name)
	if err != nil {
		return zero, err
	}

	ch := c.group.DoChan(name, func() (any, error) {
		// A flight that started after another one resolved must not refetch.
		if h, ok := c.Cached(name); ok {
			return flightResult[H]{handler: h}, nil
		}
		h, err := c.load(context.WithoutCancel(ctx), name, path)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.resolved[name] = h
		c.mu.Unlock()
		return flightResult[H]{handler: h}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(flightResult[H]).handler, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *Cache[H]) load(ctx context.Context, name, path string) (H, error) {
	var zero H

	start := time.Now()
	source, err := c.transport.Fetch(ctx, c.kind, path)
	if c.opts.observer != nil {
		c.opts.observer(FetchEvent{
			Kind:     c.kind,
			Name:     name,
			Path:     path,
			Duration: time.Since(start),
			Err:      err,
		})
	}
	if err != nil {
		return zero, &FetchError{Kind: c.kind, Name: name, Err: err}
	}

	h, err := c.safeParse(ctx, name, source)
	if err != nil {
		return zero, &EvaluationError{Kind: c.kind, Name: name, Err: err}
	}
	return h, nil
}

// safeParse turns a panicking parser into an error; singleflight would
// otherwise re-panic on an unrelated goroutine.
func (c *Cache[H]) safeParse(ctx context.Context, name string, source []byte) (h H, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.parse(ctx, name, source)
}

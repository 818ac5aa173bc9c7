package internal

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Pipeline is an append-only sequence of handlers run in registration order.
// It is safe for concurrent use; every run works on a snapshot taken when it
// starts, so handlers added mid-run only affect later runs.
type Pipeline[C any] struct {
	handlers []Handler[C]
	mu       sync.RWMutex
}

// Use appends h.
func (p *Pipeline[C]) Use(h Handler[C]) error {
	if h == nil {
		return &ArgumentError{Name: "handler", Reason: "must not be nil"}
	}
	p.mu.Lock()
	p.handlers = append(p.handlers, h)
	p.mu.Unlock()
	return nil
}

// Len returns the number of registered handlers.
func (p *Pipeline[C]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers)
}

// Run executes the pipeline over c and returns the first handler error.
// Panics are not recovered.
func (p *Pipeline[C]) Run(c C) error {
	p.mu.RLock()
	handlers := slices.Clone(p.handlers)
	p.mu.RUnlock()

	var step func(i int) error
	step = func(i int) error {
		if i >= len(handlers) {
			return nil
		}
		var called atomic.Bool
		return handlers[i](c, func() error {
			if !called.CompareAndSwap(false, true) {
				return ErrNextCalled
			}
			return step(i + 1)
		})
	}
	return step(0)
}

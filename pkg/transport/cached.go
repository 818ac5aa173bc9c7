package transport

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync"

	"github.com/dmitrymomot/sfap/pkg/resource"
)

// Store keeps raw resource source between process restarts or across instances.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedOption configures the Cached decorator.
type CachedOption func(*cached)

// WithCacheLogger reports store failures. Default: discard.
func WithCacheLogger(log *slog.Logger) CachedOption {
	return func(c *cached) {
		if log != nil {
			c.log = log
		}
	}
}

type cached struct {
	next  resource.Transport
	store Store
	log   *slog.Logger
}

// Cached serves resources from store and fills it from next on a miss.
// Store failures are logged and fall through to next; missing resources are
// never stored.
func Cached(next resource.Transport, store Store, opts ...CachedOption) resource.Transport {
	c := &cached{next: next, store: store, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *cached) Fetch(ctx context.Context, kind resource.Kind, path string) ([]byte, error) {
	key := kind.String() + ":" + path

	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.WarnContext(ctx, "resource store read failed", slog.String("key", key), slog.Any("error", err))
	}
	if ok {
		return data, nil
	}

	data, err = c.next.Fetch(ctx, kind, path)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, data); err != nil && !errors.Is(err, context.Canceled) {
		c.log.WarnContext(ctx, "resource store write failed", slog.String("key", key), slog.Any("error", err))
	}
	return data, nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	items map[string][]byte
	mu    sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// Snapshot returns a copy of the stored entries.
func (s *MemoryStore) Snapshot() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.items)
}

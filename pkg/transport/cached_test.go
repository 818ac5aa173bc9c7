package transport_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sfap/pkg/resource"
	"github.com/dmitrymomot/sfap/pkg/transport"
)

type countingTransport struct {
	calls atomic.Int32
	err   error
}

func (c *countingTransport) Fetch(_ context.Context, kind resource.Kind, path string) ([]byte, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return []byte(kind.String() + path), nil
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store down")
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("store down")
}

func TestCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("fills the store on a miss", func(t *testing.T) {
		t.Parallel()

		origin := &countingTransport{}
		store := transport.NewMemoryStore()
		tr := transport.Cached(origin, store)

		for range 3 {
			body, err := tr.Fetch(ctx, resource.View, "/view/home")
			require.NoError(t, err)
			require.Equal(t, "view/view/home", string(body))
		}
		require.Equal(t, int32(1), origin.calls.Load())
		require.Contains(t, store.Snapshot(), "view:/view/home")
	})

	t.Run("errors are not stored", func(t *testing.T) {
		t.Parallel()

		origin := &countingTransport{err: resource.ErrNotFound}
		store := transport.NewMemoryStore()
		tr := transport.Cached(origin, store)

		_, err := tr.Fetch(ctx, resource.View, "/view/x")
		require.ErrorIs(t, err, resource.ErrNotFound)
		_, err = tr.Fetch(ctx, resource.View, "/view/x")
		require.ErrorIs(t, err, resource.ErrNotFound)
		require.Equal(t, int32(2), origin.calls.Load())
		require.Empty(t, store.Snapshot())
	})

	t.Run("store failures fall through", func(t *testing.T) {
		t.Parallel()

		origin := &countingTransport{}
		tr := transport.Cached(origin, failingStore{})

		body, err := tr.Fetch(ctx, resource.Module, "/module/m")
		require.NoError(t, err)
		require.Equal(t, "module/module/m", string(body))
	})
}

type fakeRedis struct {
	data map[string]string
	ttl  time.Duration
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &fakeRedis{data: map[string]string{}}
	store := transport.NewRedisStore(client, transport.WithTTL(time.Minute), transport.WithKeyPrefix("test:"))

	_, ok, err := store.Get(ctx, "view:/view/home")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "view:/view/home", []byte("home")))
	require.Equal(t, "home", client.data["test:view:/view/home"])
	require.Equal(t, time.Minute, client.ttl)

	v, ok, err := store.Get(ctx, "view:/view/home")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("home"), v)
}

func TestOpenRedis_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := transport.OpenRedis(ctx, transport.RedisConfig{})
	require.ErrorIs(t, err, transport.ErrEmptyConnectionURL)

	_, err = transport.OpenRedis(ctx, transport.RedisConfig{URL: "http://localhost:6379"})
	require.ErrorIs(t, err, transport.ErrFailedToParseURL)
}

package resource_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sfap/pkg/resource"
)

// handler is a pointer type so identity can be asserted.
type handler struct {
	source string
}

// fakeTransport counts requests and can block until released.
type fakeTransport struct {
	calls   atomic.Int32
	release chan struct{}
	mu      sync.Mutex
	bodies  map[string]string
	errs    map[string]error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		bodies: make(map[string]string),
		errs:   make(map[string]error),
	}
}

func (f *fakeTransport) set(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[path] = body
	delete(f.errs, path)
}

func (f *fakeTransport) fail(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[path] = err
}

func (f *fakeTransport) Fetch(_ context.Context, _ resource.Kind, path string) ([]byte, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	body, ok := f.bodies[path]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return []byte(body), nil
}

func parseHandler(_ context.Context, _ string, source []byte) (*handler, error) {
	return &handler{source: string(source)}, nil
}

func TestPath(t *testing.T) {
	t.Parallel()

	p, err := resource.Path(resource.View, "a.b.c")
	require.NoError(t, err)
	require.Equal(t, "/view/a/b/c", p)

	p, err = resource.Path(resource.Module, "widgets")
	require.NoError(t, err)
	require.Equal(t, "/module/widgets", p)

	for _, bad := range []string{"", ".", "a..b", "a.", "a/b"} {
		_, err := resource.Path(resource.View, bad)
		require.ErrorIs(t, err, resource.ErrInvalidName, bad)
	}
}

func TestKind_Accept(t *testing.T) {
	t.Parallel()

	require.Equal(t, "application/json", resource.View.Accept())
	require.Equal(t, "application/js", resource.Module.Accept())
	require.NotEqual(t, resource.View.Accept(), resource.Module.Accept())
}

func TestCache_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("fetches and parses on first use", func(t *testing.T) {
		t.Parallel()

		tr := newFakeTransport()
		tr.set("/view/users/profile", "<h1>{{.Name}}</h1>")
		c := resource.New(resource.View, tr, parseHandler)

		h, err := c.Fetch(context.Background(), "users.profile")
		require.NoError(t, err)
		require.Equal(t, "<h1>{{.Name}}</h1>", h.source)
		require.Equal(t, int32(1), tr.calls.Load())
		require.Equal(t, 1, c.Len())
	})

	t.Run("resolved entries never hit the transport again", func(t *testing.T) {
		t.Parallel()

		tr := newFakeTransport()
		tr.set("/view/home", "home")
		c := resource.New(resource.View, tr, parseHandler)

		first, err := c.Fetch(context.Background(), "home")
		require.NoError(t, err)

		for range 5 {
			h, err := c.Fetch(context.Background(), "home")
			require.NoError(t, err)
			require.Same(t, first, h)
		}
		require.Equal(t, int32(1), tr.calls.Load())

		cached, ok := c.Cached("home")
		require.True(t, ok)
		require.Same(t, first, cached)
	})

	t.Run("concurrent misses share one request", func(t *testing.T) {
		t.Parallel()

		tr := newFakeTransport()
		tr.release = make(chan struct{})
		tr.set("/module/widgets", "return 1")
		c := resource.New(resource.Module, tr, parseHandler)

		const callers = 10
		results := make([]*handler, callers)
		errs := make([]error, callers)
		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = c.Fetch(context.Background(), "widgets")
			}()
		}

		require.Eventually(t, func() bool { return tr.calls.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(10 * time.Millisecond) // let the rest join the flight
		close(tr.release)
		wg.Wait()

		require.Equal(t, int32(1), tr.calls.Load())
		for i, h := range results {
			require.NoError(t, errs[i])
			require.Same(t, results[0], h)
		}
	})

	t.Run("failures are not cached", func(t *testing.T) {
		t.Parallel()

		tr := newFakeTransport()
		boom := errors.New("connection reset")
		tr.fail("/view/flaky", boom)
		c := resource.New(resource.View, tr, parseHandler)

		_, err := c.Fetch(context.Background(), "flaky")
		require.ErrorIs(t, err, resource.ErrFetch)
		require.ErrorIs(t, err, boom)

		var fe *resource.FetchError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, resource.View, fe.Kind)
		require.Equal(t, "flaky", fe.Name)
		require.Equal(t, 0, c.Len())

		tr.set("/view/flaky", "ok")
		h, err := c.Fetch(context.Background(), "flaky")
		require.NoError(t, err)
		require.Equal(t, "ok", h.source)
		require.Equal(t, int32(2), tr.calls.Load())
	})

	t.Run("parse failures surface as evaluation errors and retry", func(t *testing.T) {
		t.Parallel()

		tr := newFakeTransport()
		tr.set("/module/broken", "syntax error")
		var attempts atomic.Int32
		c := resource.New(resource.Module, tr, func(_ context.Context, _ string, src []byte) (*handler, error) {
			if attempts.Add(1) == 1 {
				return nil, errors.New("unexpected symbol")
			}
			return &handler{source: string(src)}, nil
		})

		_, err := c.Fetch(context.Background(), "broken")
		require.ErrorIs(t, err, resource.ErrEvaluation)
		require.NotErrorIs(t, err, resource.ErrFetch)

		_, err = c.Fetch(context.Background(), "broken")
		require.NoError(t, err)
		require.Equal(t, int32(2), tr.calls.Load())
	})

	t.Run("parser panics become evaluation errors", func(t *testing.T) {
		t.Parallel()

		tr := newFakeTransport()
		tr.set("/module/panicky", "x")
		c := resource.New(resource.Module, tr, func(context.Context, string, []byte) (*handler, error) {
			panic("runtime fault")
		})

		_, err := c.Fetch(context.Background(), "panicky")
		require.ErrorIs(t, err, resource.ErrEvaluation)
		require.Contains(t, err.Error(), "runtime fault")
	})

	t.Run("rejects invalid names without fetching", func(t *testing.T) {
		t.Parallel()

		tr := newFakeTransport()
		c := resource.New(resource.View, tr, parseHandler)

		_, err := c.Fetch(context.Background(), "a..b")
		require.ErrorIs(t, err, resource.ErrInvalidName)
		require.Equal(t, int32(0), tr.calls.Load())
	})

	t.Run("caller context ends the wait but not the fetch", func(t *testing.T) {
		t.Parallel()

		tr := newFakeTransport()
		tr.release = make(chan struct{})
		tr.set("/view/slow", "slow")
		c := resource.New(resource.View, tr, parseHandler)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			_, err := c.Fetch(ctx, "slow")
			errCh <- err
		}()

		require.Eventually(t, func() bool { return tr.calls.Load() == 1 }, time.Second, time.Millisecond)
		cancel()
		require.ErrorIs(t, <-errCh, context.Canceled)

		close(tr.release)
		require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, time.Millisecond)

		_, err := c.Fetch(context.Background(), "slow")
		require.NoError(t, err)
		require.Equal(t, int32(1), tr.calls.Load())
	})

	t.Run("observer sees each transport round trip", func(t *testing.T) {
		t.Parallel()

		tr := newFakeTransport()
		tr.set("/view/a", "a")
		var events []resource.FetchEvent
		var mu sync.Mutex
		c := resource.New(resource.View, tr, parseHandler, resource.WithObserver(func(e resource.FetchEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		}))

		_, err := c.Fetch(context.Background(), "a")
		require.NoError(t, err)
		_, err = c.Fetch(context.Background(), "a")
		require.NoError(t, err)
		_, err = c.Fetch(context.Background(), "missing")
		require.ErrorIs(t, err, resource.ErrNotFound)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, events, 2)
		require.Equal(t, "/view/a", events[0].Path)
		require.NoError(t, events[0].Err)
		require.ErrorIs(t, events[1].Err, resource.ErrNotFound)
	})
}

func TestCache_Range(t *testing.T) {
	t.Parallel()

	ft := newFakeTransport()
	ft.set("/module/a", "a")
	ft.set("/module/b", "b")
	c := resource.New(resource.Module, ft, parseHandler)

	ctx := context.Background()
	_, err := c.Fetch(ctx, "a")
	require.NoError(t, err)
	_, err = c.Fetch(ctx, "b")
	require.NoError(t, err)
	_, err = c.Fetch(ctx, "missing")
	require.Error(t, err)

	seen := map[string]string{}
	c.Range(func(name string, h *handler) bool {
		seen[name] = h.source
		return true
	})
	require.Equal(t, map[string]string{"a": "a", "b": "b"}, seen)

	count := 0
	c.Range(func(string, *handler) bool {
		count++
		return false
	})
	require.Equal(t, 1, count)
}

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/sfap/pkg/resource"
)

// DefaultMaxSize limits the size of a single resource body.
const DefaultMaxSize = 4 << 20

// HTTPOption configures an HTTP transport.
type HTTPOption func(*HTTP)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTP) {
		if c != nil {
			t.client = c
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(t *HTTP) {
		t.header.Add(key, value)
	}
}

// WithMaxSize limits response bodies. Default: DefaultMaxSize.
func WithMaxSize(n int64) HTTPOption {
	return func(t *HTTP) {
		if n > 0 {
			t.maxSize = n
		}
	}
}

// HTTP fetches resources with GET requests relative to a base URL.
type HTTP struct {
	base    *url.URL
	client  *http.Client
	header  http.Header
	maxSize int64
}

// NewHTTP creates a transport for the server at baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidConfig, u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	t := &HTTP{
		base:    u,
		client:  &http.Client{Timeout: 10 * time.Second},
		header:  make(http.Header),
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *HTTP) Fetch(ctx context.Context, kind resource.Kind, path string) ([]byte, error) {
	target := t.base.JoinPath(path).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range t.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", kind.Accept())

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", resource.ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > t.maxSize {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, path)
	}
	return body, nil
}

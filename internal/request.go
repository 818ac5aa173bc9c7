package internal

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Request is the parsed target of one navigation. Parsed fields are set by
// NewRequest and never change; Params is attached by the matching route.
type Request struct {
	ctx context.Context

	URL      *url.URL
	Query    url.Values
	Params   map[string]string
	Href     string
	Pathname string
	Search   string
	Hash     string
	Host     string
	Hostname string
	Port     string
	// Protocol is the URL scheme without the trailing colon.
	Protocol string

	values map[any]any
	mu     sync.RWMutex
}

// NewRequest parses rawURL into a Request.
func NewRequest(ctx context.Context, rawURL string) (*Request, error) {
	return newRequest(ctx, nil, rawURL)
}

// newRequest resolves rawURL against base when base is set.
func newRequest(ctx context.Context, base *url.URL, rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &ArgumentError{Name: "url", Reason: fmt.Sprintf("cannot parse %q", rawURL), Err: err}
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	r := &Request{
		ctx:      ctx,
		URL:      u,
		Query:    u.Query(),
		Params:   map[string]string{},
		Href:     u.String(),
		Pathname: path,
		Hash:     u.Fragment,
		Host:     u.Host,
		Hostname: u.Hostname(),
		Port:     u.Port(),
		Protocol: strings.TrimSuffix(u.Scheme, ":"),
	}
	if u.RawQuery != "" {
		r.Search = "?" + u.RawQuery
	}
	return r, nil
}

// Context returns the request context.
func (r *Request) Context() context.Context {
	return r.ctx
}

// SetContext replaces the request context for the handlers that follow.
func (r *Request) SetContext(ctx context.Context) {
	if ctx != nil {
		r.ctx = ctx
	}
}

// Param returns the route parameter name, or "".
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// Set stores a value for later handlers of the same dispatch.
func (r *Request) Set(key, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.values == nil {
		r.values = make(map[any]any)
	}
	r.values[key] = value
}

// Get returns a value stored with Set.
func (r *Request) Get(key any) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[key]
}

// Navigation is the context of the hash pipeline: the raw values reported
// by the navigation source.
type Navigation struct {
	ctx  context.Context
	To   string
	From string
}

// Context returns the navigation context.
func (n *Navigation) Context() context.Context {
	return n.ctx
}

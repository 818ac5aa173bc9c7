package hashnav

import (
	"errors"
	"regexp"
	"strings"
	"sync"
)

// ChangeFunc receives the new and previous hash values.
type ChangeFunc func(to, from string)

type subscription struct {
	re *regexp.Regexp
	fn ChangeFunc
	id uint64
}

// Router holds the current hash and its subscribers.
type Router struct {
	location string
	current  string
	subs     []subscription
	history  []string
	nextID   uint64
	mu       sync.Mutex
}

// New creates a router for the page at location. A fragment in location
// becomes the initial hash.
func New(location string) *Router {
	base, hash, _ := strings.Cut(location, "#")
	if base == "" {
		base = "/"
	}
	return &Router{location: base, current: hash}
}

// OnChange subscribes fn to hash changes matching pattern.
// The returned function removes the subscription and is safe to call twice.
func (r *Router) OnChange(pattern string, fn func(to, from string)) (func(), error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, errors.Join(ErrInvalidPattern, err)
	}

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.subs = append(r.subs, subscription{id: id, re: re, fn: fn})
	r.mu.Unlock()

	return func() { r.remove(id) }, nil
}

func (r *Router) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return
		}
	}
}

// SetHash navigates to value. A leading "#" is ignored. Setting the current
// value again notifies nobody.
func (r *Router) SetHash(value string) {
	to := strings.TrimPrefix(value, "#")

	r.mu.Lock()
	from := r.current
	if to == from {
		r.mu.Unlock()
		return
	}
	r.history = append(r.history, from)
	r.current = to
	matched := r.matching(to)
	r.mu.Unlock()

	for _, fn := range matched {
		fn(to, from)
	}
}

// Back returns to the previous hash and reports whether there was one.
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return false
	}
	from := r.current
	to := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	r.current = to
	matched := r.matching(to)
	r.mu.Unlock()

	for _, fn := range matched {
		fn(to, from)
	}
	return true
}

// matching must be called with r.mu held.
func (r *Router) matching(to string) []ChangeFunc {
	var out []ChangeFunc
	for _, s := range r.subs {
		if s.re.MatchString(to) {
			out = append(out, s.fn)
		}
	}
	return out
}

// Current returns the current hash value without the leading "#".
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Location returns the page location the router was created for,
// including the current hash if one is set.
func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == "" {
		return r.location
	}
	return r.location + "#" + r.current
}

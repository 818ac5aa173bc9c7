package devserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"

	defaultCheckTimeout = 5 * time.Second
)

// CheckFunc matches the healthcheck closures of the transport package.
type CheckFunc func(ctx context.Context) error

// HealthResponse is the JSON body of the health endpoints.
type HealthResponse struct {
	Checks map[string]CheckResult `json:"checks,omitempty"`
	Status string                 `json:"status"`
}

// CheckResult is the outcome of one named check.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// runChecks executes checks concurrently under a shared timeout.
func runChecks(ctx context.Context, checks map[string]CheckFunc, timeout time.Duration, log *slog.Logger) *HealthResponse {
	if len(checks) == 0 {
		return &HealthResponse{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]CheckResult, len(checks))
		g       errgroup.Group
	)
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		check := checks[name]
		g.Go(func() error {
			res := CheckResult{Status: StatusHealthy}
			err := check(ctx)
			if err != nil {
				res = CheckResult{Status: StatusUnhealthy, Error: err.Error()}
				log.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return err
		})
	}

	status := StatusHealthy
	if err := g.Wait(); err != nil {
		status = StatusUnhealthy
	}
	return &HealthResponse{Status: status, Checks: results}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, &HealthResponse{Status: StatusHealthy})
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := runChecks(r.Context(), s.checks, s.checkTimeout, s.log)

	status := http.StatusOK
	if resp.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	if wantsJSON(r) {
		writeJSON(w, status, resp)
		return
	}

	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte("OK"))
	} else {
		_, _ = w.Write([]byte("Service Unavailable"))
	}
}

// wantsJSON checks the format query parameter, then the Accept header.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package health runs named readiness checks with a shared timeout.
package health

import (
	"context"
	"sync"
	"time"
)

const defaultTimeout = 5 * time.Second

const (
	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc is the health check function signature, matching the
// healthcheck closures exposed by the redis and cache packages.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named health check functions.
type Checks map[string]CheckFunc

// Report is the aggregate outcome of one run.
type Report struct {
	Status string           `json:"status"`
	Checks map[string]Check `json:"checks,omitempty"`
}

// Check is the outcome of a single named check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Option configures Run.
type Option func(*config)

type config struct {
	timeout time.Duration
}

// WithTimeout bounds the whole run. Default: 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Run executes all checks concurrently and aggregates their outcomes. A
// run with no checks is healthy.
func Run(ctx context.Context, checks Checks, opts ...Option) Report {
	cfg := &config{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	report := Report{Status: StatusHealthy, Checks: make(map[string]Check, len(checks))}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Status = StatusUnhealthy
				report.Checks[name] = Check{Status: StatusUnhealthy, Error: err.Error()}
				return
			}
			report.Checks[name] = Check{Status: StatusHealthy}
		}()
	}
	wg.Wait()
	return report
}

package services

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/orbitalworks/scenefetch/internal/core/ports/driven"
)

// Retry and backoff tuning for the pipeline stages.
const (
	// Search: per-page retry budget for throttling and outages.
	searchRetryAttempts = 5
	searchBackoffBase   = 1 * time.Second
	searchBackoffCap    = 60 * time.Second

	// Search windows longer than this are split into sequential
	// sub-range searches to keep result sets pageable.
	maxSearchWindowDays = 200

	// Order submission retry budget.
	submitRetryAttempts = 3
	submitBackoffBase   = 2 * time.Second
	submitBackoffCap    = 30 * time.Second

	// Poll schedule for submitted orders.
	pollBackoffBase = 5 * time.Second
	pollBackoffCap  = 120 * time.Second

	// DefaultOrderWait bounds how long one order may take to reach a
	// terminal state before it is abandoned as timed out.
	DefaultOrderWait = 30 * time.Minute

	// Download retry budget per asset.
	fetchRetryAttempts = 5
	fetchBackoffBase   = 1 * time.Second
	fetchBackoffCap    = 60 * time.Second
)

// backoffDelay returns the exponential delay before retry attempt n
// (1-based): base, 2*base, 4*base, ... capped at max.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}

// sleep waits d on the injected clock, returning early when ctx is
// cancelled.
func sleep(ctx context.Context, clock driven.Clock, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}

// defaultJitter perturbs a delay to 50-100% of its value so parallel
// workers' retries spread out instead of hammering in lockstep.
func defaultJitter(d time.Duration) time.Duration {
	if d <= time.Millisecond {
		return d
	}
	half := d / 2
	return half + rand.N(half+1)
}

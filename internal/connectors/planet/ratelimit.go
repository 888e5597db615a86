package planet

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate is the proactive throttle rate in requests per
	// second, under Planet's published 10 req/s account ceiling with
	// headroom for parallel poll and download workers.
	ProactiveRate = 4.0

	// ProactiveBurst is the token bucket burst size.
	ProactiveBurst = 4

	// DefaultRetryAfter is the hold applied to a 429 response that
	// carries no Retry-After header.
	DefaultRetryAfter = 10 * time.Second

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter implements dual-strategy rate limiting for the Planet
// APIs: a token bucket throttles proactively, and 429 responses park
// all traffic until the server's retry window reopens.
type RateLimiter struct {
	mu        sync.Mutex
	holdUntil time.Time
	bucket    *rate.Limiter
}

// NewRateLimiter creates a new rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(ProactiveRate), ProactiveBurst),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	// 1. Check token bucket (proactive throttling)
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	// 2. Honor any server-imposed hold (reactive)
	r.mu.Lock()
	holdUntil := r.holdUntil
	r.mu.Unlock()

	if wait := time.Until(holdUntil); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil
}

// UpdateFromResponse updates limiter state from a response. A 429 sets
// the hold from the Retry-After header.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return
	}

	retryAfter := DefaultRetryAfter
	if header := resp.Header.Get(HeaderRetryAfter); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(retryAfter); until.After(r.holdUntil) {
		r.holdUntil = until
	}
}

// Hold returns how long traffic is currently parked, zero when open.
func (r *RateLimiter) Hold() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wait := time.Until(r.holdUntil); wait > 0 {
		return wait
	}
	return 0
}

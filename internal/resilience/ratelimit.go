package resilience

import (
	"sync"
	"time"
)

// RateLimiter bounds the number of acquisitions whose timestamps fall within
// a trailing window. Purely in-memory and private to its owner; the ceiling
// is therefore per instance, not per user.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
}

// NewRateLimiter returns a limiter allowing limit acquisitions per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, window: window}
}

// DefaultRateLimiter allows 10 acquisitions per trailing hour.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(10, time.Hour)
}

// TryAcquire discards timestamps older than now minus the window, then
// either records now and returns true, or rejects without recording.
func (r *RateLimiter) TryAcquire(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.window)
	kept := r.stamps[:0]
	for _, ts := range r.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	r.stamps = kept

	if len(r.stamps) >= r.limit {
		return false
	}
	r.stamps = append(r.stamps, now)
	return true
}

// Limit returns the configured ceiling.
func (r *RateLimiter) Limit() int { return r.limit }

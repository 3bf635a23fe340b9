// Package resilience wraps remote calls with timeouts, retry with
// exponential backoff, and sliding-window rate limiting.
package resilience

import (
	"context"
	"errors"
	"log"
	"time"
)

// Options controls one resilient call.
type Options struct {
	Timeout     time.Duration // per-attempt deadline
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // backoff before attempt i is BaseDelay * 2^(i-2)

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultOptions matches the planner call path: 30s timeout, 3 attempts,
// 1s base backoff.
func DefaultOptions() Options {
	return Options{
		Timeout:     30 * time.Second,
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call runs op with a per-attempt timeout, retrying timeouts and
// network-level failures with exponential backoff. Non-retryable failures
// propagate immediately as *PermanentError; exhausting the retry budget
// returns the last error wrapped in *TransientError.
//
// On timeout the attempt's eventual settlement is discarded, not awaited.
// op must therefore be idempotent or safely repeatable.
func Call[T any](ctx context.Context, op func(context.Context) (T, error), opts Options) (T, error) {
	var zero T
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	sleep := opts.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := opts.BaseDelay << (attempt - 2)
			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
		}

		v, err := runAttempt(ctx, op, opts.Timeout)
		if err == nil {
			return v, nil
		}
		if !retryable(err) {
			var perm *PermanentError
			if errors.As(err, &perm) {
				return zero, err
			}
			return zero, &PermanentError{Err: err}
		}
		lastErr = err
		if attempt < opts.MaxAttempts {
			log.Printf("resilience: attempt %d/%d failed: %v", attempt, opts.MaxAttempts, err)
		}
	}
	return zero, &TransientError{Attempts: opts.MaxAttempts, Err: lastErr}
}

// runAttempt races op against the attempt deadline. If the deadline wins,
// the goroutine running op is abandoned; the buffered channel lets it
// finish without leaking.
func runAttempt[T any](ctx context.Context, op func(context.Context) (T, error), timeout time.Duration) (T, error) {
	var zero T

	attemptCtx := ctx
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := op(attemptCtx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		if errors.Is(r.err, context.DeadlineExceeded) {
			return zero, &TimeoutError{Err: r.err}
		}
		return r.v, r.err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			// Parent cancelled, not a per-attempt timeout.
			return zero, ctx.Err()
		}
		return zero, &TimeoutError{Err: attemptCtx.Err()}
	}
}

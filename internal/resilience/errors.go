package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TimeoutError indicates an operation exceeded its per-attempt deadline.
// The underlying call may still complete remotely; its result is discarded.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string { return "operation timed out" }
func (e *TimeoutError) Unwrap() error { return e.Err }

// TransientError wraps the last error observed after the retry budget is
// exhausted. The failure was of a retryable kind (timeout or network).
type TransientError struct {
	Attempts int
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}
func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError wraps a failure that must not be retried: validation,
// bad credentials, an explicit service-side error, a malformed response.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// ValidationError reports a locally-detected bad input, such as an empty
// required field. Never retried, surfaced inline to the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RateLimitError reports a call rejected by the sliding-window limiter
// before any network activity.
type RateLimitError struct {
	Limit int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit of %d calls exceeded, try again later", e.Limit)
}

// Permanent marks err as non-retryable for Call.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// retryable reports whether err is worth another attempt: our own timeout,
// a context deadline, or a network-level failure. Anything explicitly marked
// permanent, and anything unrecognized, propagates immediately.
func retryable(err error) bool {
	var perm *PermanentError
	if errors.As(err, &perm) {
		return false
	}
	var tmo *TimeoutError
	if errors.As(err, &tmo) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

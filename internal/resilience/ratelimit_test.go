package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_WindowBoundary(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	base := time.Unix(1000, 0)

	assert.True(t, rl.TryAcquire(base))
	assert.True(t, rl.TryAcquire(base))
	assert.False(t, rl.TryAcquire(base.Add(500*time.Millisecond)))
	// The first two stamps fall out of the trailing window.
	assert.True(t, rl.TryAcquire(base.Add(1001*time.Millisecond)))
}

func TestRateLimiter_RejectionDoesNotRecord(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	base := time.Unix(1000, 0)

	assert.True(t, rl.TryAcquire(base))
	// Hammering while full must not extend the window.
	for i := 0; i < 5; i++ {
		assert.False(t, rl.TryAcquire(base.Add(time.Duration(i)*100*time.Millisecond)))
	}
	assert.True(t, rl.TryAcquire(base.Add(1001*time.Millisecond)))
}

func TestRateLimiter_Defaults(t *testing.T) {
	rl := DefaultRateLimiter()
	now := time.Now()
	for i := 0; i < 10; i++ {
		assert.True(t, rl.TryAcquire(now))
	}
	assert.False(t, rl.TryAcquire(now))
	assert.Equal(t, 10, rl.Limit())
}

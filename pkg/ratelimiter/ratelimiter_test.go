package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()
	rl.SetPolicy("unsubscribe", 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("unsubscribe", "1.2.3.4"), "attempt %d should pass", i)
	}
	assert.False(t, rl.Allow("unsubscribe", "1.2.3.4"))

	// Distinct keys do not share budgets
	assert.True(t, rl.Allow("unsubscribe", "5.6.7.8"))
}

func TestAllowUnknownNamespaceFailsClosed(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()
	assert.False(t, rl.Allow("nope", "key"))
}

func TestReset(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()
	rl.SetPolicy("confirm", 1, time.Minute)

	assert.True(t, rl.Allow("confirm", "k"))
	assert.False(t, rl.Allow("confirm", "k"))
	rl.Reset("confirm", "k")
	assert.True(t, rl.Allow("confirm", "k"))
}

func TestStopTwice(t *testing.T) {
	rl := NewRateLimiter()
	rl.Stop()
	rl.Stop()
}

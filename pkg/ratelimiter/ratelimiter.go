package ratelimiter

import (
	"sync"
	"time"
)

// RatePolicy defines the rate limit configuration for a namespace
type RatePolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// RateLimiter provides in-memory rate limiting with namespace support.
// Attempts are tracked per namespace:key combination so that different
// public endpoints can carry different limits.
type RateLimiter struct {
	mu          sync.Mutex
	attempts    map[string][]time.Time
	policies    map[string]RatePolicy
	stopCleanup chan struct{}
	stopped     bool
}

// NewRateLimiter creates a rate limiter and starts a background cleanup
// goroutine that drops expired entries. Configure limits with SetPolicy
// before calling Allow.
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		attempts:    make(map[string][]time.Time),
		policies:    make(map[string]RatePolicy),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// SetPolicy configures the rate limit policy for a namespace.
func (rl *RateLimiter) SetPolicy(namespace string, maxAttempts int, window time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.policies[namespace] = RatePolicy{MaxAttempts: maxAttempts, Window: window}
}

// Allow records an attempt for namespace:key and reports whether it is
// within the policy. Namespaces without a policy fail closed.
func (rl *RateLimiter) Allow(namespace, key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, exists := rl.policies[namespace]
	if !exists {
		return false
	}

	now := time.Now()
	cutoff := now.Add(-policy.Window)
	compositeKey := namespace + ":" + key

	valid := rl.attempts[compositeKey][:0:0]
	for _, t := range rl.attempts[compositeKey] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= policy.MaxAttempts {
		rl.attempts[compositeKey] = valid
		return false
	}

	rl.attempts[compositeKey] = append(valid, now)
	return true
}

// Reset clears recorded attempts for namespace:key.
func (rl *RateLimiter) Reset(namespace, key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, namespace+":"+key)
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for compositeKey, attemptsList := range rl.attempts {
				namespace := compositeKey
				for i, c := range compositeKey {
					if c == ':' {
						namespace = compositeKey[:i]
						break
					}
				}

				policy, exists := rl.policies[namespace]
				if !exists {
					delete(rl.attempts, compositeKey)
					continue
				}

				cutoff := now.Add(-policy.Window)
				hasRecent := false
				for _, t := range attemptsList {
					if t.After(cutoff) {
						hasRecent = true
						break
					}
				}
				if !hasRecent {
					delete(rl.attempts, compositeKey)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCleanup:
			return
		}
	}
}

// Stop stops the background cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if !rl.stopped {
		close(rl.stopCleanup)
		rl.stopped = true
	}
}

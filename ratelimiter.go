package langsync

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket bounding the client's own request rate.
// A denied request surfaces as a RateLimitError without a transport call.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
}

// NewRateLimiter creates a bucket holding maxTokens, refilled one token per
// refillRate.
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// Tokens reports the tokens currently available.
func (rl *RateLimiter) Tokens() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	return rl.tokens
}

// refill adds the tokens earned since the last refill. Callers must hold mu.
func (rl *RateLimiter) refill() {
	if rl.refillRate <= 0 {
		return
	}
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	earned := int(elapsed / rl.refillRate)
	if earned <= 0 {
		return
	}

	rl.tokens += earned
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = rl.lastRefill.Add(time.Duration(earned) * rl.refillRate)
}

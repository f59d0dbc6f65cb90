// Package backoff provides bounded retry delay strategies. Every strategy is
// monotonically non-decreasing in its base curve and capped at a maximum.
package backoff

import (
	"math/rand"
	"time"
)

// Strategy computes the pause before the next retry. attempt is zero-based:
// Delay(0) is the pause between the first and second attempt.
type Strategy interface {
	Delay(attempt int) time.Duration
}

// Exponential grows the delay geometrically from Initial up to Max, with an
// optional uniform jitter fraction added on top.
type Exponential struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64 // fraction of the delay, clamped to [0, 1]
}

// Delay implements Strategy.
func (s Exponential) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Cap the exponent so the float math cannot overflow.
	if attempt > 30 {
		attempt = 30
	}

	delay := time.Duration(float64(s.Initial) * pow(s.Multiplier, attempt))
	if delay < 0 || delay > s.Max {
		delay = s.Max
	}

	jitter := clamp(s.Jitter)
	if jitter > 0 {
		extra := time.Duration(float64(delay) * jitter * rand.Float64())
		if delay+extra > s.Max {
			delay = s.Max
		} else {
			delay += extra
		}
	}
	return delay
}

// Decorrelated implements decorrelated jitter: each delay is drawn uniformly
// between Initial and min(Max, Initial*3^attempt). Smoother tail latencies
// than plain exponential jitter under herd load.
type Decorrelated struct {
	Initial time.Duration
	Max     time.Duration
}

// Delay implements Strategy.
func (s Decorrelated) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return s.Initial
	}
	if attempt > 10 {
		attempt = 10
	}

	base := float64(s.Initial)
	upper := base * pow(3.0, attempt)

	maxf := float64(s.Max)
	if upper > maxf || upper < 0 {
		upper = maxf
	}
	if upper < base {
		upper = base
	}

	delay := time.Duration(base + rand.Float64()*(upper-base))
	if delay < 0 || delay > s.Max {
		delay = s.Max
	}
	return delay
}

func clamp(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}

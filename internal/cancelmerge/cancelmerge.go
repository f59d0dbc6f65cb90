// Package cancelmerge composes two independent cancellation sources, an
// internally owned attempt deadline and an externally owned caller signal,
// into one derived context that reports which source fired first. The caller's
// context is only observed, never cancelled or otherwise mutated.
package cancelmerge

import (
	"context"
	"errors"
	"time"
)

// Source identifies which cancellation source fired first for an attempt.
type Source int

const (
	// None means neither source has fired.
	None Source = iota
	// Timeout means the internally owned attempt deadline elapsed.
	Timeout
	// Caller means the external signal was cancelled by its owner.
	Caller
)

// String returns a short label for logging.
func (s Source) String() string {
	switch s {
	case Timeout:
		return "timeout"
	case Caller:
		return "caller"
	default:
		return "none"
	}
}

// WithTimeout derives a context cancelled by whichever fires first: the parent
// (the caller's own signal) or the supplied deadline. The returned source
// function reports, after the fact, which one it was; the caller's own
// cancellation always takes precedence in that report, so a parent that fires
// while the deadline is also elapsing is attributed to the caller.
//
// The stop function releases the timer and detaches the derived context from
// the parent. It must be called on every exit path.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, func() Source, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)

	source := func() Source {
		if parent.Err() != nil {
			return Caller
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Timeout
		}
		return None
	}

	return ctx, source, cancel
}

package backoff

import (
	"testing"
	"time"
)

func TestExponentialGrowth(t *testing.T) {
	s := Exponential{
		Initial:    100 * time.Millisecond,
		Max:        10 * time.Second,
		Multiplier: 2.0,
	}

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}
	for attempt, expected := range want {
		if got := s.Delay(attempt); got != expected {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, expected)
		}
	}
}

func TestExponentialCapsAtMax(t *testing.T) {
	s := Exponential{
		Initial:    time.Second,
		Max:        5 * time.Second,
		Multiplier: 2.0,
	}

	for _, attempt := range []int{10, 30, 1000} {
		if got := s.Delay(attempt); got != s.Max {
			t.Errorf("Delay(%d) = %v, want cap %v", attempt, got, s.Max)
		}
	}
}

func TestExponentialJitterBounds(t *testing.T) {
	s := Exponential{
		Initial:    100 * time.Millisecond,
		Max:        10 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.5,
	}

	for i := 0; i < 100; i++ {
		got := s.Delay(2)
		base := 400 * time.Millisecond
		if got < base || got > base+base/2 {
			t.Fatalf("Delay(2) = %v, want within [%v, %v]", got, base, base+base/2)
		}
	}
}

func TestExponentialJitterClamped(t *testing.T) {
	s := Exponential{
		Initial:    100 * time.Millisecond,
		Max:        time.Second,
		Multiplier: 1.0,
		Jitter:     5.0, // treated as 1.0
	}

	for i := 0; i < 100; i++ {
		if got := s.Delay(0); got > 200*time.Millisecond {
			t.Fatalf("Delay(0) = %v exceeds doubled base", got)
		}
	}
}

func TestExponentialNegativeAttempt(t *testing.T) {
	s := Exponential{
		Initial:    100 * time.Millisecond,
		Max:        time.Second,
		Multiplier: 2.0,
	}

	if got := s.Delay(-3); got != 100*time.Millisecond {
		t.Errorf("Delay(-3) = %v, want %v", got, 100*time.Millisecond)
	}
}

func TestDecorrelatedRange(t *testing.T) {
	s := Decorrelated{
		Initial: 100 * time.Millisecond,
		Max:     5 * time.Second,
	}

	if got := s.Delay(0); got != s.Initial {
		t.Errorf("Delay(0) = %v, want %v", got, s.Initial)
	}

	for attempt := 1; attempt <= 12; attempt++ {
		for i := 0; i < 50; i++ {
			got := s.Delay(attempt)
			if got < s.Initial || got > s.Max {
				t.Fatalf("Delay(%d) = %v, want within [%v, %v]", attempt, got, s.Initial, s.Max)
			}
		}
	}
}

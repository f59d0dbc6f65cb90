package langsync

import (
	"testing"
	"time"
)

func TestRateLimiterExhaustion(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("Request %d should be allowed", i)
		}
	}
	if rl.Allow() {
		t.Error("Bucket should be empty")
	}
	if rl.Tokens() != 0 {
		t.Errorf("Expected 0 tokens, got %d", rl.Tokens())
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(2, 20*time.Millisecond)

	rl.Allow()
	rl.Allow()
	if rl.Allow() {
		t.Fatal("Bucket should be empty")
	}

	time.Sleep(30 * time.Millisecond)

	if !rl.Allow() {
		t.Error("Expected a token after refill interval")
	}
}

func TestRateLimiterCapsAtMax(t *testing.T) {
	rl := NewRateLimiter(2, time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	if tokens := rl.Tokens(); tokens != 2 {
		t.Errorf("Expected refill capped at 2 tokens, got %d", tokens)
	}
}

package provider

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(3, time.Hour)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
	}
}

func TestRateLimiterBlocksWhenExhausted(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(1, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}
	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("expected context deadline while waiting for a token")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(1, 5*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- limiter.Wait(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("refilled wait should succeed: %v", err)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("wait did not return after refill")
	}
}

func TestRateLimiterCapsAtBurst(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(2, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if !limiter.take() {
		t.Fatal("expected a token after refill window")
	}

	limiter.mu.Lock()
	tokens := limiter.tokens
	limiter.mu.Unlock()
	if tokens > 2 {
		t.Fatalf("tokens should never exceed burst, got %d", tokens)
	}
}

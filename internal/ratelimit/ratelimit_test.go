package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		key      string
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			key:      "test",
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			key:      "test",
			calls:    5,
			wantPass: 2,
		},
		{
			name:     "different keys are independent",
			rps:      1,
			burst:    1,
			key:      "key1",
			calls:    1,
			wantPass: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow(tt.key) {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	rl := New(10, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// First call should succeed immediately
	start := time.Now()
	if err := rl.Wait(ctx, "test"); err != nil {
		t.Errorf("first Wait() failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("first Wait() should be immediate")
	}

	// Second call should wait roughly 100ms (1/10 rps)
	start = time.Now()
	if err := rl.Wait(ctx, "test"); err != nil {
		t.Errorf("second Wait() failed: %v", err)
	}
	if time.Since(start) < 50*time.Millisecond {
		t.Error("second Wait() should have blocked for a token")
	}
}

func TestKeyedRateLimiter_Forget(t *testing.T) {
	rl := New(1, 1)

	if !rl.Allow("gone") {
		t.Fatal("first call should pass")
	}
	if rl.Allow("gone") {
		t.Fatal("bucket should be drained")
	}

	// Forgetting the key resets its bucket.
	rl.Forget("gone")
	if !rl.Allow("gone") {
		t.Error("forgotten key should start with a fresh bucket")
	}
}

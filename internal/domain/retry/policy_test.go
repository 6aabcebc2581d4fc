package retry_test

import (
	"context"
	"testing"
	"time"

	"github.com/Wldc4rd/HaloClaude/internal/domain/retry"
)

func TestCalculateDelay_Strategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy retry.BackoffType
		attempt  int
		want     time.Duration
	}{
		{"fixed first", retry.BackoffFixed, 1, 100 * time.Millisecond},
		{"fixed third", retry.BackoffFixed, 3, 100 * time.Millisecond},
		{"linear first", retry.BackoffLinear, 1, 100 * time.Millisecond},
		{"linear third", retry.BackoffLinear, 3, 300 * time.Millisecond},
		{"exponential first", retry.BackoffExponential, 1, 100 * time.Millisecond},
		{"exponential third", retry.BackoffExponential, 3, 400 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			policy := retry.Policy{
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        time.Minute,
				BackoffStrategy: tc.strategy,
			}
			if got := policy.CalculateDelay(tc.attempt); got != tc.want {
				t.Fatalf("CalculateDelay(%d) = %v, want %v", tc.attempt, got, tc.want)
			}
		})
	}
}

func TestCalculateDelay_CapsAtMaxDelay(t *testing.T) {
	policy := retry.Policy{
		InitialDelay:    time.Second,
		MaxDelay:        2 * time.Second,
		BackoffStrategy: retry.BackoffExponential,
	}
	if got := policy.CalculateDelay(10); got != 2*time.Second {
		t.Fatalf("CalculateDelay(10) = %v, want cap of 2s", got)
	}
}

func TestCalculateDelay_JitterStaysInBounds(t *testing.T) {
	policy := retry.Policy{
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        time.Minute,
		BackoffStrategy: retry.BackoffFixed,
		JitterFactor:    0.5,
	}
	for i := 0; i < 100; i++ {
		got := policy.CalculateDelay(1)
		if got < 50*time.Millisecond || got > 150*time.Millisecond {
			t.Fatalf("jittered delay %v outside [50ms, 150ms]", got)
		}
	}
}

func TestCalculateDelay_NonPositiveAttempt(t *testing.T) {
	policy := retry.HaloPolicy()
	if got := policy.CalculateDelay(0); got != 0 {
		t.Fatalf("CalculateDelay(0) = %v, want 0", got)
	}
}

func TestWait_CancelledContext(t *testing.T) {
	policy := retry.Policy{
		InitialDelay:    time.Minute,
		BackoffStrategy: retry.BackoffFixed,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := policy.Wait(ctx, 1)
	if err == nil {
		t.Fatal("Wait returned nil for cancelled context")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Wait blocked %v despite cancellation", elapsed)
	}
}

func TestMaxAttempts(t *testing.T) {
	if got := retry.ProviderPolicy().MaxAttempts(); got != 2 {
		t.Fatalf("ProviderPolicy MaxAttempts = %d, want 2", got)
	}
	if got := retry.HaloPolicy().MaxAttempts(); got != 3 {
		t.Fatalf("HaloPolicy MaxAttempts = %d, want 3", got)
	}
}

package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/vvka-141/netres/pkg/netres"
)

func TestRetryPolicy_DefaultValues(t *testing.T) {
	policy, err := NewRetryPolicy(3)
	if err != nil {
		t.Fatalf("NewRetryPolicy: %v", err)
	}

	if policy.MaxAttempts() != 3 {
		t.Errorf("Expected MaxAttempts=3, got %d", policy.MaxAttempts())
	}
	if policy.InitialDelay() != netres.DefaultRetryInitialDelay {
		t.Errorf("Expected InitialDelay=%v, got %v", netres.DefaultRetryInitialDelay, policy.InitialDelay())
	}
	if policy.MaxDelay() != netres.DefaultRetryMaxDelay {
		t.Errorf("Expected MaxDelay=%v, got %v", netres.DefaultRetryMaxDelay, policy.MaxDelay())
	}
	if policy.BackoffFactor() != 2.0 {
		t.Errorf("Expected BackoffFactor=2.0, got %v", policy.BackoffFactor())
	}
	if !policy.Jitter() {
		t.Error("Expected jitter enabled by default")
	}
	if policy.TimeoutPerAttempt() != netres.DefaultTimeoutPerAttempt {
		t.Errorf("Expected TimeoutPerAttempt=%v, got %v", netres.DefaultTimeoutPerAttempt, policy.TimeoutPerAttempt())
	}
}

func TestNewRetryPolicy_Validation(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
		opts        []PolicyOption
	}{
		{"zero attempts", 0, nil},
		{"negative attempts", -1, nil},
		{"zero initial delay", 3, []PolicyOption{WithInitialDelay(0)}},
		{"negative initial delay", 3, []PolicyOption{WithInitialDelay(-time.Second)}},
		{"factor equal to one", 3, []PolicyOption{WithBackoffFactor(1.0)}},
		{"factor below one", 3, []PolicyOption{WithBackoffFactor(0.5)}},
		{"max below initial", 3, []PolicyOption{WithInitialDelay(2 * time.Second), WithMaxDelay(time.Second)}},
		{"zero attempt timeout", 3, []PolicyOption{WithTimeoutPerAttempt(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := NewRetryPolicy(tt.maxAttempts, tt.opts...)
			if err == nil {
				t.Fatalf("Expected error, got policy %+v", policy)
			}
			if !errors.Is(err, netres.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMustRetryPolicy_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for invalid policy")
		}
	}()
	MustRetryPolicy(0)
}

func TestRetryPolicy_Delay_WithoutJitter(t *testing.T) {
	policy := MustRetryPolicy(5,
		WithInitialDelay(100*time.Millisecond),
		WithBackoffFactor(2.0),
		WithJitter(false),
	)

	tests := []struct {
		attempt       int
		expectedDelay time.Duration
	}{
		{attempt: 0, expectedDelay: 100 * time.Millisecond},  // 100 * 2^0
		{attempt: 1, expectedDelay: 200 * time.Millisecond},  // 100 * 2^1
		{attempt: 2, expectedDelay: 400 * time.Millisecond},  // 100 * 2^2
		{attempt: 3, expectedDelay: 800 * time.Millisecond},  // 100 * 2^3
		{attempt: 4, expectedDelay: 1600 * time.Millisecond}, // 100 * 2^4
	}

	for _, tt := range tests {
		if delay := policy.Delay(tt.attempt); delay != tt.expectedDelay {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, delay, tt.expectedDelay)
		}
	}
}

func TestRetryPolicy_Delay_MaxDelayCap(t *testing.T) {
	policy := MustRetryPolicy(10,
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(time.Second),
		WithJitter(false),
	)

	// 100ms * 2^10 = 102.4s, capped at 1s
	if delay := policy.Delay(10); delay != time.Second {
		t.Errorf("Delay(10) = %v, want %v", delay, time.Second)
	}

	// Overflowing exponents still cap
	if delay := policy.Delay(5000); delay != time.Second {
		t.Errorf("Delay(5000) = %v, want %v", delay, time.Second)
	}
}

func TestRetryPolicy_Delay_MinimumFloor(t *testing.T) {
	policy := MustRetryPolicy(3,
		WithInitialDelay(5*time.Millisecond),
		WithMaxDelay(time.Second),
		WithJitter(false),
	)

	if delay := policy.Delay(0); delay != netres.MinRetryDelay {
		t.Errorf("Delay(0) = %v, want floor %v", delay, netres.MinRetryDelay)
	}
	if delay := policy.Delay(-3); delay != netres.MinRetryDelay {
		t.Errorf("Delay(-3) = %v, want floor %v", delay, netres.MinRetryDelay)
	}
}

func TestRetryPolicy_Delay_WithJitter(t *testing.T) {
	tests := []struct {
		name   string
		random float64
		want   time.Duration
	}{
		{"lowest random gives -10%", 0.0, 900 * time.Millisecond},
		{"midpoint gives no change", 0.5, 1000 * time.Millisecond},
		{"highest random approaches +10%", 1.0, 1100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			random := tt.random
			policy := MustRetryPolicy(3,
				WithInitialDelay(time.Second),
				WithMaxDelay(10*time.Second),
				WithJitterFunc(func() float64 { return random }),
			)

			if delay := policy.Delay(0); delay != tt.want {
				t.Errorf("Delay(0) = %v, want %v", delay, tt.want)
			}
		})
	}
}

func TestRetryPolicy_Delay_JitterNeverExceedsMaxDelay(t *testing.T) {
	policy := MustRetryPolicy(3,
		WithInitialDelay(time.Second),
		WithMaxDelay(2*time.Second),
		WithJitterFunc(func() float64 { return 0.999 }),
	)

	for attempt := 0; attempt < 10; attempt++ {
		if delay := policy.Delay(attempt); delay > 2*time.Second {
			t.Errorf("Delay(%d) = %v exceeds max delay", attempt, delay)
		}
	}
}

func TestRetryPolicy_Delay_Bounds(t *testing.T) {
	policy := MustRetryPolicy(20,
		WithInitialDelay(50*time.Millisecond),
		WithMaxDelay(5*time.Second),
		WithBackoffFactor(1.7),
	)

	for i := 0; i < 500; i++ {
		attempt := i % 25
		delay := policy.Delay(attempt)
		if delay > policy.MaxDelay() {
			t.Fatalf("Delay(%d) = %v > max %v", attempt, delay, policy.MaxDelay())
		}
		if delay < netres.MinRetryDelay {
			t.Fatalf("Delay(%d) = %v < floor %v", attempt, delay, netres.MinRetryDelay)
		}
	}
}

func TestRetryPolicy_Delay_MonotonicWithinJitterTolerance(t *testing.T) {
	policy := MustRetryPolicy(10,
		WithInitialDelay(200*time.Millisecond),
		WithMaxDelay(time.Minute),
	)
	base := MustRetryPolicy(10,
		WithInitialDelay(200*time.Millisecond),
		WithMaxDelay(time.Minute),
		WithJitter(false),
	)

	for attempt := 0; attempt < 8; attempt++ {
		lo := float64(base.Delay(attempt)) * (1 - netres.JitterFraction)
		hi := float64(base.Delay(attempt)) * (1 + netres.JitterFraction)

		got := float64(policy.Delay(attempt))
		if got < lo || got > hi {
			t.Errorf("Delay(%d) = %v outside jitter band [%v, %v]",
				attempt, time.Duration(got), time.Duration(lo), time.Duration(hi))
		}

		if next := base.Delay(attempt + 1); next < base.Delay(attempt) {
			t.Errorf("base delay decreased from attempt %d to %d", attempt, attempt+1)
		}
	}
}

func TestRetryPolicy_ImplementsBackoffStrategy(t *testing.T) {
	var strategy netres.BackoffStrategy = MustRetryPolicy(4, WithJitter(false), WithInitialDelay(time.Second))

	if strategy.MaxAttempts() != 4 {
		t.Errorf("MaxAttempts() = %d, want 4", strategy.MaxAttempts())
	}
	if strategy.NextDelay(1) != 2*time.Second {
		t.Errorf("NextDelay(1) = %v, want 2s", strategy.NextDelay(1))
	}
}

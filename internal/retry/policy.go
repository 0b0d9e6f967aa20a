package retry

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vvka-141/netres/pkg/netres"
)

// RetryPolicy implements capped exponential backoff with optional jitter.
// A policy is immutable once constructed and safe for concurrent use.
type RetryPolicy struct {
	// maxAttempts is the total number of attempts, including the first one
	maxAttempts int

	// initialDelay is the delay after the first failed attempt
	initialDelay time.Duration

	// maxDelay caps every computed delay
	maxDelay time.Duration

	// backoffFactor is the factor by which delay increases (must be > 1)
	backoffFactor float64

	// jitter enables a symmetric +/- 10% perturbation of each delay
	jitter bool

	// timeoutPerAttempt bounds a single attempt
	timeoutPerAttempt time.Duration

	// jitterFunc provides random values [0, 1) for jitter calculation (defaults to rand.Float64)
	jitterFunc func() float64
}

// PolicyOption is a functional option for configuring RetryPolicy.
type PolicyOption func(*RetryPolicy)

// WithInitialDelay sets the delay after the first failed attempt.
func WithInitialDelay(d time.Duration) PolicyOption {
	return func(p *RetryPolicy) {
		p.initialDelay = d
	}
}

// WithMaxDelay sets the maximum delay between attempts.
func WithMaxDelay(d time.Duration) PolicyOption {
	return func(p *RetryPolicy) {
		p.maxDelay = d
	}
}

// WithBackoffFactor sets the factor by which delay increases between attempts.
func WithBackoffFactor(f float64) PolicyOption {
	return func(p *RetryPolicy) {
		p.backoffFactor = f
	}
}

// WithJitter enables or disables delay jitter.
func WithJitter(enabled bool) PolicyOption {
	return func(p *RetryPolicy) {
		p.jitter = enabled
	}
}

// WithTimeoutPerAttempt bounds each individual attempt.
func WithTimeoutPerAttempt(d time.Duration) PolicyOption {
	return func(p *RetryPolicy) {
		p.timeoutPerAttempt = d
	}
}

// WithJitterFunc sets a custom function for generating random jitter values.
func WithJitterFunc(f func() float64) PolicyOption {
	return func(p *RetryPolicy) {
		p.jitterFunc = f
	}
}

// NewRetryPolicy creates a validated retry policy with netres defaults.
// Additional configuration can be provided via functional options.
//
// Example:
//
//	policy, err := retry.NewRetryPolicy(5,
//	    retry.WithInitialDelay(200*time.Millisecond),
//	    retry.WithMaxDelay(10*time.Second),
//	    retry.WithTimeoutPerAttempt(2*time.Second),
//	)
func NewRetryPolicy(maxAttempts int, opts ...PolicyOption) (*RetryPolicy, error) {
	p := &RetryPolicy{
		maxAttempts:       maxAttempts,
		initialDelay:      netres.DefaultRetryInitialDelay,
		maxDelay:          netres.DefaultRetryMaxDelay,
		backoffFactor:     netres.DefaultRetryBackoffFactor,
		jitter:            true,
		timeoutPerAttempt: netres.DefaultTimeoutPerAttempt,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// MustRetryPolicy is like NewRetryPolicy but panics on invalid settings.
// Intended for package-level defaults and tests.
func MustRetryPolicy(maxAttempts int, opts ...PolicyOption) *RetryPolicy {
	p, err := NewRetryPolicy(maxAttempts, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *RetryPolicy) validate() error {
	switch {
	case p.maxAttempts < 1:
		return fmt.Errorf("max_attempts must be >= 1, got %d: %w", p.maxAttempts, netres.ErrInvalidConfig)
	case p.initialDelay <= 0:
		return fmt.Errorf("initial_delay must be > 0, got %v: %w", p.initialDelay, netres.ErrInvalidConfig)
	case p.maxDelay < p.initialDelay:
		return fmt.Errorf("max_delay (%v) must be >= initial_delay (%v): %w", p.maxDelay, p.initialDelay, netres.ErrInvalidConfig)
	case p.backoffFactor <= 1 || math.IsNaN(p.backoffFactor) || math.IsInf(p.backoffFactor, 0):
		return fmt.Errorf("backoff_factor must be > 1, got %v: %w", p.backoffFactor, netres.ErrInvalidConfig)
	case p.timeoutPerAttempt <= 0:
		return fmt.Errorf("timeout_per_attempt must be > 0, got %v: %w", p.timeoutPerAttempt, netres.ErrInvalidConfig)
	}
	return nil
}

// Delay returns the wait after the given zero-indexed attempt.
//
// The result is min(initialDelay * backoffFactor^attempt, maxDelay), perturbed
// by up to +/- 10% when jitter is enabled, then clamped to [MinRetryDelay, maxDelay].
// Jitter may pull a delay below initialDelay but never above maxDelay.
func (p *RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(p.initialDelay) * math.Pow(p.backoffFactor, float64(attempt))

	// Cap at maxDelay (also catches +Inf for very large attempts)
	if delay > float64(p.maxDelay) || math.IsInf(delay, 1) {
		delay = float64(p.maxDelay)
	}

	if p.jitter {
		jitterFunc := p.jitterFunc
		if jitterFunc == nil {
			jitterFunc = rand.Float64
		}

		// Map [0,1) to [-1,1), then scale to the jitter band
		randomOffset := (jitterFunc() - 0.5) * 2.0
		delay *= 1.0 + netres.JitterFraction*randomOffset
	}

	if delay > float64(p.maxDelay) {
		delay = float64(p.maxDelay)
	}
	if delay < float64(netres.MinRetryDelay) {
		delay = float64(netres.MinRetryDelay)
	}

	return time.Duration(delay)
}

// NextDelay implements netres.BackoffStrategy.
func (p *RetryPolicy) NextDelay(attempt int) time.Duration {
	return p.Delay(attempt)
}

// MaxAttempts returns the total number of attempts allowed.
func (p *RetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// InitialDelay returns the initial delay for tests and debugging.
func (p *RetryPolicy) InitialDelay() time.Duration {
	return p.initialDelay
}

// MaxDelay returns the maximum delay for tests and debugging.
func (p *RetryPolicy) MaxDelay() time.Duration {
	return p.maxDelay
}

// BackoffFactor returns the backoff factor for tests and debugging.
func (p *RetryPolicy) BackoffFactor() float64 {
	return p.backoffFactor
}

// Jitter reports whether jitter is enabled.
func (p *RetryPolicy) Jitter() bool {
	return p.jitter
}

// TimeoutPerAttempt returns the per-attempt timeout.
func (p *RetryPolicy) TimeoutPerAttempt() time.Duration {
	return p.timeoutPerAttempt
}

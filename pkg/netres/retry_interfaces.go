package netres

import "time"

// ErrorClassifier maps an attempt error to a category.
type ErrorClassifier interface {
	// Classify must be deterministic: the same error always yields the same category.
	Classify(err error) ErrorCategory
}

// CriticalErrorClassifier detects errors that must abort retries immediately,
// regardless of how many attempts remain.
type CriticalErrorClassifier interface {
	IsCritical(err error) bool
}

// BackoffStrategy calculates the delay before the next retry attempt.
type BackoffStrategy interface {
	// NextDelay returns the duration to wait after the given zero-indexed attempt.
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the total number of attempts allowed (always >= 1).
	MaxAttempts() int
}

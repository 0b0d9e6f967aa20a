package netres

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // All checks healthy
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or retry settings
	ExitConnectionError = 11 // Failed to reach a dependency
	ExitChecksFailed    = 12 // At least one check reported unhealthy
)

const (
	// DefaultRetryMaxAttempts is the default total number of attempts (initial + retries).
	DefaultRetryMaxAttempts = 3

	// DefaultRetryInitialDelay is the base delay before the first retry.
	DefaultRetryInitialDelay = 1 * time.Second

	// DefaultRetryMaxDelay caps the delay between attempts.
	DefaultRetryMaxDelay = 30 * time.Second

	// DefaultRetryBackoffFactor is the exponential growth factor.
	DefaultRetryBackoffFactor = 2.0

	// DefaultTimeoutPerAttempt bounds a single attempt.
	DefaultTimeoutPerAttempt = 10 * time.Second

	// MinRetryDelay is the floor applied to every computed delay.
	MinRetryDelay = 100 * time.Millisecond

	// JitterFraction is the symmetric jitter band (+/- 10%).
	JitterFraction = 0.1

	// DefaultAttemptHistoryLimit bounds per-operation attempt history.
	DefaultAttemptHistoryLimit = 100

	// MaxResponseBodyBytes caps how much of an HTTP response body is kept in a payload.
	MaxResponseBodyBytes = 64 * 1024
)

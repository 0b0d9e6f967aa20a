package netres

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	policy, err := retry.NewRetryPolicy(0)
//	if errors.Is(err, netres.ErrInvalidConfig) {
//	    // Handle bad retry settings
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates a dependency could not be reached.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrChecksFailed indicates one or more health checks reported unhealthy.
	ErrChecksFailed = errors.New("health checks failed")

	// ErrUnsupportedScheme indicates no checker is registered for a URL scheme.
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedScheme):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrChecksFailed):
		return ExitChecksFailed
	}

	// cobra reports usage problems as plain errors
	errStr := err.Error()
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "accepts ", "required flag", "invalid argument"} {
		if strings.HasPrefix(errStr, prefix) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}

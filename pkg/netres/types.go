package netres

import (
	"context"
	"fmt"
	"time"
)

// ErrorCategory is the coarse classification of a failed attempt.
type ErrorCategory int

const (
	CategoryOther ErrorCategory = iota
	CategoryConnectionRefused
	CategoryConnectionTimeout
	CategoryDNSFailure
	CategoryNetworkUnreachable
	CategoryTLSError
	CategoryServiceUnavailable
)

var categoryNames = map[ErrorCategory]string{
	CategoryOther:              "other",
	CategoryConnectionRefused:  "connection_refused",
	CategoryConnectionTimeout:  "connection_timeout",
	CategoryDNSFailure:         "dns_failure",
	CategoryNetworkUnreachable: "network_unreachable",
	CategoryTLSError:           "tls_error",
	CategoryServiceUnavailable: "service_unavailable",
}

// String returns the snake_case name used in logs, metrics and attempt records.
func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "other"
}

// MarshalText encodes the category as its snake_case name.
func (c ErrorCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a snake_case category name.
func (c *ErrorCategory) UnmarshalText(text []byte) error {
	for category, name := range categoryNames {
		if name == string(text) {
			*c = category
			return nil
		}
	}
	return fmt.Errorf("unknown error category %q", text)
}

// Operation is a single attempt of a resilient call.
// The returned payload is surfaced in Result.Payload on success.
type Operation func(ctx context.Context) (any, error)

// AttemptRecord describes one attempt of an operation. Records are values
// and are never mutated after they are appended to an attempt log.
type AttemptRecord struct {
	// RunID identifies the Execute call that produced this attempt.
	RunID string `json:"run_id"`

	// Attempt is 1-based.
	Attempt int `json:"attempt"`

	StartedAt time.Time     `json:"started_at"`
	Succeeded bool          `json:"succeeded"`
	Error     string        `json:"error,omitempty"`
	Category  ErrorCategory `json:"category"`
	Duration  time.Duration `json:"duration"`
}

// Result is what every resilient call returns. Executors never return an
// error for a failed operation; the failure is described here instead.
type Result struct {
	Success bool `json:"success"`

	// Payload is the operation's value on success, or the degraded marker
	// map when Degraded is true.
	Payload any `json:"payload,omitempty"`

	// Error is the formatted failure message when Success is false.
	Error string `json:"error,omitempty"`

	// Degraded is true when the call exhausted its attempts against an
	// unavailable service and degradation was allowed.
	Degraded bool `json:"degraded,omitempty"`

	// Attempts is the number of attempts made.
	Attempts int `json:"attempts"`
}

// DegradedPayload builds the successful-shaped marker returned when a
// service is unavailable and the caller tolerates reduced functionality.
func DegradedPayload(message string) map[string]any {
	return map[string]any{
		"status":  "degraded",
		"mode":    "mock",
		"message": message,
	}
}

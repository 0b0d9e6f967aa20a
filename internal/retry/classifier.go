package retry

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/netres/pkg/netres"
)

// PostgreSQL error codes relevant to dependency health.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	// Class 28 - Invalid Authorization Specification
	pgCodeInvalidAuthorizationSpecification = "28000"
	pgCodeInvalidPassword                   = "28P01"

	// Class 3D - Invalid Catalog Name
	pgCodeInvalidCatalogName = "3D000"

	// Class 53 - Insufficient Resources
	pgCodeTooManyConnections = "53300"

	// Class 57 - Operator Intervention
	pgCodeAdminShutdown    = "57P01"
	pgCodeCrashShutdown    = "57P02"
	pgCodeCannotConnectNow = "57P03"
)

// StatusError reports an HTTP response whose status code indicates failure.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// textRule maps a set of lowercase substrings to a category.
type textRule struct {
	patterns []string
	category netres.ErrorCategory
}

// Order matters: the first matching rule wins.
var textRules = []textRule{
	{[]string{"connection refused"}, netres.CategoryConnectionRefused},
	{[]string{"timeout", "timed out"}, netres.CategoryConnectionTimeout},
	{[]string{"name or service not known", "nodename nor servname"}, netres.CategoryDNSFailure},
	{[]string{"network unreachable", "network is unreachable"}, netres.CategoryNetworkUnreachable},
	{[]string{"ssl", "certificate"}, netres.CategoryTLSError},
	{[]string{"service unavailable", "502", "503"}, netres.CategoryServiceUnavailable},
}

// Classifier implements netres.ErrorClassifier.
//
// Structured error types (context deadlines, net and syscall errors, TLS and
// x509 failures, HTTP status errors, PostgreSQL error codes) are inspected
// first. Opaque errors fall back to case-insensitive message matching.
type Classifier struct{}

// NewClassifier creates a new error classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify determines the category of an attempt error.
func (c *Classifier) Classify(err error) netres.ErrorCategory {
	if err == nil {
		return netres.CategoryOther
	}

	if category, ok := c.classifyStructured(err); ok {
		return category
	}

	return ClassifyText(err.Error())
}

// classifyStructured inspects typed errors in the chain.
func (c *Classifier) classifyStructured(err error) (netres.ErrorCategory, bool) {
	if errors.Is(err, context.DeadlineExceeded) {
		return netres.CategoryConnectionTimeout, true
	}

	// DNS errors: timeouts are transient, everything else is a lookup failure
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return netres.CategoryConnectionTimeout, true
		}
		return netres.CategoryDNSFailure, true
	}

	if isTLSError(err) {
		return netres.CategoryTLSError, true
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return netres.CategoryConnectionRefused, true
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return netres.CategoryNetworkUnreachable, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return netres.CategoryConnectionTimeout, true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusTooManyRequests:
			return netres.CategoryServiceUnavailable, true
		case http.StatusGatewayTimeout:
			return netres.CategoryConnectionTimeout, true
		default:
			return netres.CategoryOther, true
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPgError(pgErr), true
	}

	return netres.CategoryOther, false
}

// classifyPgError maps server-reported conditions to categories.
func classifyPgError(pgErr *pgconn.PgError) netres.ErrorCategory {
	switch pgErr.Code {
	case pgCodeCannotConnectNow,
		pgCodeAdminShutdown,
		pgCodeCrashShutdown,
		pgCodeTooManyConnections:
		return netres.CategoryServiceUnavailable
	}

	// Class 08 - Connection Exception
	if strings.HasPrefix(pgErr.Code, "08") {
		return netres.CategoryServiceUnavailable
	}

	return netres.CategoryOther
}

func isTLSError(err error) bool {
	var (
		unknownAuthority x509.UnknownAuthorityError
		invalidCert      x509.CertificateInvalidError
		hostnameErr      x509.HostnameError
		recordHeaderErr  tls.RecordHeaderError
		verifyErr        *tls.CertificateVerificationError
		alertErr         tls.AlertError
	)

	return errors.As(err, &unknownAuthority) ||
		errors.As(err, &invalidCert) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &recordHeaderErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &alertErr)
}

// ClassifyText categorizes an error message by case-insensitive substring matching.
func ClassifyText(msg string) netres.ErrorCategory {
	lower := strings.ToLower(msg)

	for _, rule := range textRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lower, pattern) {
				return rule.category
			}
		}
	}

	return netres.CategoryOther
}

// IsRetryable reports whether an attempt failing with category should be retried.
// DNS, TLS and uncategorized failures fail fast.
func IsRetryable(category netres.ErrorCategory) bool {
	switch category {
	case netres.CategoryConnectionRefused,
		netres.CategoryConnectionTimeout,
		netres.CategoryNetworkUnreachable,
		netres.CategoryServiceUnavailable:
		return true
	}
	return false
}

// DatabaseCriticalClassifier implements netres.CriticalErrorClassifier for
// database drivers. Authentication failures and missing databases will not
// resolve themselves between attempts, so retrying them only delays the report.
type DatabaseCriticalClassifier struct{}

// NewDatabaseCriticalClassifier creates a new critical error classifier.
func NewDatabaseCriticalClassifier() *DatabaseCriticalClassifier {
	return &DatabaseCriticalClassifier{}
}

// IsCritical reports whether err must abort retries immediately.
func (c *DatabaseCriticalClassifier) IsCritical(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeInvalidPassword,
			pgCodeInvalidAuthorizationSpecification,
			pgCodeInvalidCatalogName:
			return true
		}
	}

	lower := strings.ToLower(err.Error())

	criticalPatterns := []string{
		"authentication failed",
		"does not exist", // database "x" or role "x" does not exist
		"noauth",         // redis: authentication required
		"wrongpass",      // redis: invalid username-password pair
	}
	for _, pattern := range criticalPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

package retry

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/netres/pkg/netres"
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		msg  string
		want netres.ErrorCategory
	}{
		{"dial tcp 127.0.0.1:5432: connect: Connection Refused", netres.CategoryConnectionRefused},
		{"read tcp: i/o timeout", netres.CategoryConnectionTimeout},
		{"operation timed out", netres.CategoryConnectionTimeout},
		{"could not translate host name: Name or service not known", netres.CategoryDNSFailure},
		{"getaddrinfo: nodename nor servname provided, or not known", netres.CategoryDNSFailure},
		{"connect: network unreachable", netres.CategoryNetworkUnreachable},
		{"dial udp: connect: network is unreachable", netres.CategoryNetworkUnreachable},
		{"SSL handshake failed", netres.CategoryTLSError},
		{"x509: certificate signed by unknown authority", netres.CategoryTLSError},
		{"Service Unavailable", netres.CategoryServiceUnavailable},
		{"upstream returned 502", netres.CategoryServiceUnavailable},
		{"HTTP 503", netres.CategoryServiceUnavailable},
		{"division by zero", netres.CategoryOther},
		{"", netres.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := ClassifyText(tt.msg); got != tt.want {
				t.Errorf("ClassifyText(%q) = %v, want %v", tt.msg, got, tt.want)
			}
		})
	}
}

func TestClassifyText_Deterministic(t *testing.T) {
	inputs := []string{"connection refused", "timeout", "ssl", "503", "nope"}

	for _, in := range inputs {
		first := ClassifyText(in)
		for i := 0; i < 10; i++ {
			if got := ClassifyText(in); got != first {
				t.Fatalf("ClassifyText(%q) changed from %v to %v", in, first, got)
			}
		}
	}
}

func TestClassifier_Classify_Structured(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name string
		err  error
		want netres.ErrorCategory
	}{
		{
			name: "nil",
			err:  nil,
			want: netres.CategoryOther,
		},
		{
			name: "context deadline",
			err:  fmt.Errorf("ping: %w", context.DeadlineExceeded),
			want: netres.CategoryConnectionTimeout,
		},
		{
			name: "ECONNREFUSED",
			err: &net.OpError{
				Op:  "dial",
				Net: "tcp",
				Err: &os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED},
			},
			want: netres.CategoryConnectionRefused,
		},
		{
			name: "ENETUNREACH",
			err: &net.OpError{
				Op:  "dial",
				Net: "tcp",
				Err: &os.SyscallError{Syscall: "connect", Err: syscall.ENETUNREACH},
			},
			want: netres.CategoryNetworkUnreachable,
		},
		{
			name: "EHOSTUNREACH",
			err: &net.OpError{
				Op:  "dial",
				Net: "tcp",
				Err: &os.SyscallError{Syscall: "connect", Err: syscall.EHOSTUNREACH},
			},
			want: netres.CategoryNetworkUnreachable,
		},
		{
			name: "DNS not found",
			err:  &net.DNSError{Err: "no such host", Name: "db.invalid", IsNotFound: true},
			want: netres.CategoryDNSFailure,
		},
		{
			name: "DNS timeout",
			err:  &net.DNSError{Err: "i/o timeout", Name: "db.internal", IsTimeout: true},
			want: netres.CategoryConnectionTimeout,
		},
		{
			name: "x509 unknown authority",
			err:  fmt.Errorf("tls: %w", x509.UnknownAuthorityError{}),
			want: netres.CategoryTLSError,
		},
		{
			name: "http 503",
			err:  &StatusError{StatusCode: 503, Method: "GET", URL: "http://svc/health"},
			want: netres.CategoryServiceUnavailable,
		},
		{
			name: "http 502",
			err:  &StatusError{StatusCode: 502, Method: "GET", URL: "http://svc/health"},
			want: netres.CategoryServiceUnavailable,
		},
		{
			name: "http 504",
			err:  &StatusError{StatusCode: 504, Method: "GET", URL: "http://svc/health"},
			want: netres.CategoryConnectionTimeout,
		},
		{
			name: "http 500 is not retryable",
			err:  &StatusError{StatusCode: 500, Method: "POST", URL: "http://svc/x"},
			want: netres.CategoryOther,
		},
		{
			name: "pg cannot connect now",
			err:  &pgconn.PgError{Code: "57P03", Message: "the database system is starting up"},
			want: netres.CategoryServiceUnavailable,
		},
		{
			name: "pg too many connections",
			err:  &pgconn.PgError{Code: "53300", Message: "sorry, too many clients already"},
			want: netres.CategoryServiceUnavailable,
		},
		{
			name: "pg connection exception class",
			err:  &pgconn.PgError{Code: "08006", Message: "connection failure"},
			want: netres.CategoryServiceUnavailable,
		},
		{
			name: "pg syntax error",
			err:  &pgconn.PgError{Code: "42601", Message: "syntax error"},
			want: netres.CategoryOther,
		},
		{
			name: "opaque error falls back to text",
			err:  errors.New("redis: connection refused"),
			want: netres.CategoryConnectionRefused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		category netres.ErrorCategory
		want     bool
	}{
		{netres.CategoryConnectionRefused, true},
		{netres.CategoryConnectionTimeout, true},
		{netres.CategoryNetworkUnreachable, true},
		{netres.CategoryServiceUnavailable, true},
		{netres.CategoryDNSFailure, false},
		{netres.CategoryTLSError, false},
		{netres.CategoryOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			if got := IsRetryable(tt.category); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestDatabaseCriticalClassifier_IsCritical(t *testing.T) {
	classifier := NewDatabaseCriticalClassifier()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg invalid password code", &pgconn.PgError{Code: "28P01", Message: "password authentication failed for user \"app\""}, true},
		{"pg invalid authorization code", &pgconn.PgError{Code: "28000", Message: "role \"ghost\" does not exist"}, true},
		{"pg missing database code", &pgconn.PgError{Code: "3D000", Message: "database \"missing\" does not exist"}, true},
		{"authentication failed text", errors.New("FATAL: password authentication failed for user \"app\""), true},
		{"database does not exist text", errors.New("database does not exist"), true},
		{"quoted database does not exist text", errors.New("failed to connect: FATAL: database \"orders\" does not exist (SQLSTATE 3D000)"), true},
		{"role does not exist text", errors.New("failed to connect: FATAL: role \"bob\" does not exist"), true},
		{"redis noauth", errors.New("NOAUTH Authentication required."), true},
		{"redis wrongpass", errors.New("WRONGPASS invalid username-password pair or user is disabled."), true},
		{"connection refused is transient", errors.New("connection refused"), false},
		{"pg connection failure is transient", &pgconn.PgError{Code: "08006", Message: "connection failure"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.IsCritical(tt.err); got != tt.want {
				t.Errorf("IsCritical(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

package checks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/netres/internal/db"
	"github.com/vvka-141/netres/internal/health"
	"github.com/vvka-141/netres/internal/logging"
	"github.com/vvka-141/netres/internal/retry"
	"github.com/vvka-141/netres/pkg/netres"
)

// HTTPResponse is the payload of a successful HTTPRequest.
type HTTPResponse struct {
	StatusCode int         `json:"status_code"`
	Body       string      `json:"body"`
	Header     http.Header `json:"header"`
}

// TCPResult is the payload of a successful TCPCheck.
type TCPResult struct {
	Address string        `json:"address"`
	Latency time.Duration `json:"latency"`
}

// Service runs resilient checks against external dependencies.
//
// Thread Safety:
// Safe for concurrent use. All checks share the executor's attempt log and
// health registry.
type Service struct {
	executor   *retry.Executor
	dbExecutor *retry.Executor
	policy     *retry.RetryPolicy
	checkers   *CheckerRegistry
	fallback   Checker
	client     *http.Client
	dialer     *net.Dialer
	logger     netres.Logger
	limit      int
	noFallback bool
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets the retry policy used by every check.
func WithPolicy(p *retry.RetryPolicy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithCheckers replaces the database checker registry.
func WithCheckers(r *CheckerRegistry) Option {
	return func(s *Service) {
		s.checkers = r
	}
}

// WithHTTPClient sets the client used by HTTPRequest.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.client = c
	}
}

// WithLogger sets the service logger.
func WithLogger(l netres.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithConcurrency bounds how many checks RunAll runs at once.
// Values below 1 mean no limit.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		s.limit = n
	}
}

// WithTCPFallback controls whether database schemes without a registered
// checker are probed with a TCP connect. Enabled by default.
func WithTCPFallback(enabled bool) Option {
	return func(s *Service) {
		s.noFallback = !enabled
	}
}

// NewService creates a check service on top of executor.
// Panics if executor is nil.
func NewService(executor *retry.Executor, opts ...Option) *Service {
	if executor == nil {
		panic("executor cannot be nil")
	}

	s := &Service{
		executor: executor,
		policy:   retry.DefaultPolicy(),
		checkers: DefaultCheckers(),
		client:   &http.Client{},
		dialer:   &net.Dialer{},
		logger:   logging.NewNullLogger(),
		limit:    8,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.dbExecutor = executor.WithCriticalClassifier(retry.NewDatabaseCriticalClassifier())
	s.fallback = tcpFallback{dialer: s.dialer}
	return s
}

// HTTPRequest performs an HTTP request with retries.
//
// Responses with status >= 500 are retried according to their category.
// Other 4xx responses fail immediately. With allowDegradation, exhaustion
// against an unavailable service returns a degraded success.
// Credentials in rawURL are masked in the operation ID and in errors.
func (s *Service) HTTPRequest(ctx context.Context, method, rawURL string, body []byte, allowDegradation bool) netres.Result {
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}
	display := redactURL(rawURL)

	op := func(ctx context.Context) (any, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, err
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, netres.MaxResponseBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &retry.StatusError{StatusCode: resp.StatusCode, Method: method, URL: display}
		}

		return HTTPResponse{
			StatusCode: resp.StatusCode,
			Body:       string(data),
			Header:     resp.Header,
		}, nil
	}

	return s.executor.Execute(ctx, retry.Request{
		OperationID:      httpOperationID(method, display),
		Policy:           s.policy,
		Operation:        op,
		AllowDegradation: allowDegradation,
	})
}

// TCPCheck verifies that host:port accepts TCP connections.
func (s *Service) TCPCheck(ctx context.Context, host string, port int) netres.Result {
	address := net.JoinHostPort(host, strconv.Itoa(port))

	op := func(ctx context.Context) (any, error) {
		start := time.Now()
		conn, err := s.dialer.DialContext(ctx, "tcp", address)
		if err != nil {
			return nil, err
		}
		conn.Close()
		return TCPResult{Address: address, Latency: time.Since(start)}, nil
	}

	return s.executor.Execute(ctx, retry.Request{
		OperationID: tcpOperationID(host, port),
		Policy:      s.policy,
		Operation:   op,
	})
}

// DatabaseCheck connects to the database named by rawURL and runs a trivial
// query. Driver-suffixed schemes such as postgresql+asyncpg are accepted.
// Authentication failures and missing databases fail without retrying.
func (s *Service) DatabaseCheck(ctx context.Context, rawURL string) netres.Result {
	return s.databaseCheck(ctx, rawURL, false)
}

func (s *Service) databaseCheck(ctx context.Context, rawURL string, allowDegradation bool) netres.Result {
	target, checker, err := s.Resolve(rawURL)
	if err != nil {
		return netres.Result{Error: err.Error()}
	}
	s.logger.Verbose("Checking %s", target.Redacted())

	return s.dbExecutor.Execute(ctx, retry.Request{
		OperationID: target.OperationID(),
		Policy:      s.policy,
		Operation: func(ctx context.Context) (any, error) {
			return checker.Check(ctx, target)
		},
		AllowDegradation: allowDegradation,
	})
}

// Resolve parses a database URL and selects its checker. Without a
// registered checker it returns the TCP fallback, or an error wrapping
// netres.ErrUnsupportedScheme when the fallback is disabled.
func (s *Service) Resolve(rawURL string) (*db.Target, Checker, error) {
	target, err := db.Parse(rawURL)
	if err != nil {
		return nil, nil, err
	}

	if checker, ok := s.checkers.Lookup(target.Scheme); ok {
		return target, checker, nil
	}
	if s.noFallback {
		return nil, nil, fmt.Errorf("no driver for scheme %q: %w", target.Scheme, netres.ErrUnsupportedScheme)
	}

	s.logger.Verbose("No driver for %s, falling back to TCP check of %s", target.Scheme, target.Address())
	return target, s.fallback, nil
}

// HealthSummary returns the current health of every service checked so far.
func (s *Service) HealthSummary() health.Summary {
	return s.executor.Registry().Summary()
}

// Attempts returns the attempt history of an operation.
func (s *Service) Attempts(operationID string) []netres.AttemptRecord {
	return s.executor.Attempts().Attempts(operationID)
}

func httpOperationID(method, target string) string {
	return method + "_" + target
}

// redactURL masks the password of rawURL. Unparseable input is returned as is.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Redacted()
}

func tcpOperationID(host string, port int) string {
	return fmt.Sprintf("tcp_%s_%d", host, port)
}

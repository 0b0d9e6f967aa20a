package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vvka-141/netres/internal/health"
	"github.com/vvka-141/netres/internal/logging"
	"github.com/vvka-141/netres/internal/metrics"
	"github.com/vvka-141/netres/pkg/netres"
)

// DefaultPolicy returns a policy with the netres defaults.
func DefaultPolicy() *RetryPolicy {
	return MustRetryPolicy(netres.DefaultRetryMaxAttempts)
}

// Request describes one resilient call.
type Request struct {
	// OperationID keys the attempt log, e.g. "GET_http://svc/health".
	OperationID string

	// ServiceKey keys the health registry. Defaults to OperationID.
	ServiceKey string

	// Policy controls attempts, backoff and per-attempt timeout. Nil means DefaultPolicy().
	Policy *RetryPolicy

	Operation netres.Operation

	// AllowDegradation turns exhaustion against an unavailable service into
	// a degraded success instead of a failure.
	AllowDegradation bool
}

// Executor orchestrates attempts with backoff, classification and reporting.
//
// Thread Safety:
// The Executor itself is safe for concurrent use when calling Execute().
// The attempt log and registry it reports into are shared and internally
// synchronized. WithOnRetry() and WithCriticalClassifier() return a NEW
// instance; the original Executor remains unchanged.
type Executor struct {
	classifier netres.ErrorClassifier
	critical   netres.CriticalErrorClassifier
	attempts   *health.AttemptLog
	registry   *health.Registry
	logger     netres.Logger
	metrics    *metrics.Recorder
	tracer     trace.Tracer
	onRetry    func(attempt int, err error, delay time.Duration)
}

// ExecutorOption configures optional Executor collaborators.
type ExecutorOption func(*Executor)

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l netres.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithMetrics sets the Prometheus recorder for attempts.
func WithMetrics(r *metrics.Recorder) ExecutorOption {
	return func(e *Executor) {
		e.metrics = r
	}
}

// WithTracer overrides the OpenTelemetry tracer (defaults to the global provider).
func WithTracer(t trace.Tracer) ExecutorOption {
	return func(e *Executor) {
		e.tracer = t
	}
}

// NewExecutor creates a new executor reporting into the given attempt log and registry.
// A nil attempt log or registry is replaced with a private one.
// Panics if classifier is nil.
func NewExecutor(
	classifier netres.ErrorClassifier,
	attempts *health.AttemptLog,
	registry *health.Registry,
	opts ...ExecutorOption,
) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if attempts == nil {
		attempts = health.NewAttemptLog(netres.DefaultAttemptHistoryLimit)
	}
	if registry == nil {
		registry = health.NewRegistry()
	}

	e := &Executor{
		classifier: classifier,
		attempts:   attempts,
		registry:   registry,
		logger:     logging.NewNullLogger(),
		tracer:     otel.Tracer("netres.retry"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithOnRetry returns a new Executor with the specified retry callback.
// attempt is zero-indexed and delay is the wait before the next attempt.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// WithCriticalClassifier returns a new Executor that aborts immediately on
// errors the classifier reports as critical. Used for database checks.
func (e *Executor) WithCriticalClassifier(c netres.CriticalErrorClassifier) *Executor {
	clone := *e
	clone.critical = c
	return &clone
}

// Attempts returns the attempt log the executor reports into.
func (e *Executor) Attempts() *health.AttemptLog {
	return e.attempts
}

// Registry returns the health registry the executor reports into.
func (e *Executor) Registry() *health.Registry {
	return e.registry
}

// Execute runs the operation with retry logic. It never returns an error:
// operation failures, panics and timeouts are described in the Result.
func (e *Executor) Execute(ctx context.Context, req Request) netres.Result {
	policy := req.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}
	serviceKey := req.ServiceKey
	if serviceKey == "" {
		serviceKey = req.OperationID
	}
	runID := uuid.NewString()
	maxAttempts := policy.MaxAttempts()

	ctx, span := e.tracer.Start(ctx, "retry.Execute",
		trace.WithAttributes(
			attribute.String("netres.operation_id", req.OperationID),
			attribute.String("netres.service", serviceKey),
			attribute.Int("netres.max_attempts", maxAttempts),
		),
	)
	defer span.End()

	if req.Operation == nil {
		return e.finish(span, netres.Result{Error: "no operation provided"}, nil)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		made := attempt + 1
		started := time.Now()
		payload, err := e.runAttempt(ctx, policy.TimeoutPerAttempt(), req.Operation)
		duration := time.Since(started)

		if err == nil {
			e.observe(req.OperationID, serviceKey, netres.AttemptRecord{
				RunID:     runID,
				Attempt:   made,
				StartedAt: started,
				Succeeded: true,
				Duration:  duration,
			})
			return e.finish(span, netres.Result{Success: true, Payload: payload, Attempts: made}, nil)
		}

		category := e.classifier.Classify(err)
		e.observe(req.OperationID, serviceKey, netres.AttemptRecord{
			RunID:     runID,
			Attempt:   made,
			StartedAt: started,
			Error:     err.Error(),
			Category:  category,
			Duration:  duration,
		})

		if ctxErr := ctx.Err(); ctxErr != nil {
			return e.finish(span, netres.Result{
				Error:    fmt.Sprintf("Cancelled after %s: %v", pluralAttempts(made), ctxErr),
				Attempts: made,
			}, err)
		}

		if e.critical != nil && e.critical.IsCritical(err) {
			e.logger.Error("Critical error for %s, not retrying: %v", req.OperationID, err)
			return e.finish(span, netres.Result{
				Error:    fmt.Sprintf("Critical database error: %v", err),
				Attempts: made,
			}, err)
		}

		if !IsRetryable(category) || made == maxAttempts {
			if req.AllowDegradation && category == netres.CategoryServiceUnavailable {
				msg := fmt.Sprintf("%s unavailable after %s, running in degraded mode: %v", serviceKey, pluralAttempts(made), err)
				e.logger.Info("%s", msg)
				return e.finish(span, netres.Result{
					Success:  true,
					Payload:  netres.DegradedPayload(msg),
					Degraded: true,
					Attempts: made,
				}, err)
			}
			return e.finish(span, netres.Result{
				Error:    fmt.Sprintf("Failed after %s: %v", pluralAttempts(made), err),
				Attempts: made,
			}, err)
		}

		delay := policy.Delay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}
		e.logger.Verbose("Attempt %d/%d for %s failed (%s), retrying in %v: %v",
			made, maxAttempts, req.OperationID, category, delay, err)

		// Wait for backoff period (respecting context cancellation)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return e.finish(span, netres.Result{
				Error:    fmt.Sprintf("Cancelled after %s: %v", pluralAttempts(made), ctx.Err()),
				Attempts: made,
			}, ctx.Err())
		case <-timer.C:
		}
	}

	// Unreachable: the loop always returns on the last attempt.
	return e.finish(span, netres.Result{Error: "no attempts made"}, nil)
}

type attemptOutcome struct {
	payload any
	err     error
}

// runAttempt invokes op under a per-attempt deadline. An operation that
// ignores its context is abandoned when the deadline fires; its goroutine
// exits once the operation returns.
func (e *Executor) runAttempt(ctx context.Context, timeout time.Duration, op netres.Operation) (any, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan attemptOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptOutcome{err: fmt.Errorf("operation panicked: %v", r)}
			}
		}()
		payload, err := op(attemptCtx)
		done <- attemptOutcome{payload: payload, err: err}
	}()

	select {
	case out := <-done:
		return out.payload, out.err
	case <-attemptCtx.Done():
		// Prefer a result that raced the deadline
		select {
		case out := <-done:
			return out.payload, out.err
		default:
		}
		return nil, fmt.Errorf("attempt timed out after %v: %w", timeout, attemptCtx.Err())
	}
}

func (e *Executor) observe(operationID, serviceKey string, rec netres.AttemptRecord) {
	e.attempts.Append(operationID, rec)
	e.registry.Update(serviceKey, rec.Succeeded)
	e.metrics.ObserveAttempt(serviceKey, rec.Succeeded, rec.Category.String(), rec.Duration)
}

func (e *Executor) finish(span trace.Span, result netres.Result, lastErr error) netres.Result {
	outcome := "failure"
	switch {
	case result.Degraded:
		outcome = "degraded"
	case result.Success:
		outcome = "success"
	}

	span.SetAttributes(
		attribute.Int("netres.attempts", result.Attempts),
		attribute.String("netres.outcome", outcome),
	)
	if lastErr != nil {
		span.RecordError(lastErr)
	}
	if result.Success {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, result.Error)
	}
	return result
}

func pluralAttempts(n int) string {
	if n == 1 {
		return "1 attempt"
	}
	return fmt.Sprintf("%d attempts", n)
}

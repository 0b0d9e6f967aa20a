// Package retry provides resilient execution of dependency calls: capped
// exponential backoff with jitter, error categorization, and graceful
// degradation when a service is unavailable.
//
// # Example Usage
//
//	attempts := health.NewAttemptLog(netres.DefaultAttemptHistoryLimit)
//	registry := health.NewRegistry()
//	executor := retry.NewExecutor(retry.NewClassifier(), attempts, registry)
//
//	policy, err := retry.NewRetryPolicy(3, retry.WithInitialDelay(500*time.Millisecond))
//	if err != nil {
//	    return err
//	}
//
//	result := executor.Execute(ctx, retry.Request{
//	    OperationID: "GET_http://orders/health",
//	    ServiceKey:  "orders",
//	    Policy:      policy,
//	    Operation: func(ctx context.Context) (any, error) {
//	        return ping(ctx)
//	    },
//	})
//
// # Error Classification
//
// The Classifier maps errors to a netres.ErrorCategory. Typed errors (net,
// syscall, x509, pgconn, StatusError) are inspected first; opaque errors fall
// back to message matching. Only refused, timeout, unreachable and
// unavailable categories are retried.
//
// Database checks additionally use DatabaseCriticalClassifier, which aborts
// on authentication failures and missing databases before any retry.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. Use WithOnRetry() to create
// independent configurations per goroutine.
package retry

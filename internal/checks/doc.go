// Package checks runs resilient dependency checks (HTTP, TCP, database)
// on top of the retry executor.
//
// Every check reports into the executor's attempt log and health registry,
// so HealthSummary and Attempts reflect all checks a Service has run.
//
// # Usage
//
//	classifier := retry.NewClassifier()
//	executor := retry.NewExecutor(classifier, nil, nil)
//	svc := checks.NewService(executor)
//
//	result := svc.DatabaseCheck(ctx, "postgresql+asyncpg://app@db:5432/app")
//	if !result.Success {
//	    log.Printf("database down: %s", result.Error)
//	}
//
// Database checks pick a Checker by URL scheme. Schemes without a registered
// checker are probed with a plain TCP connect and report "mode": "tcp_only".
package checks

package cli

import (
	"errors"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vvka-141/netres/internal/checks"
	"github.com/vvka-141/netres/internal/config"
	"github.com/vvka-141/netres/internal/db"
	"github.com/vvka-141/netres/internal/health"
	"github.com/vvka-141/netres/internal/logging"
	"github.com/vvka-141/netres/internal/metrics"
	"github.com/vvka-141/netres/internal/retry"
	"github.com/vvka-141/netres/pkg/netres"
)

// app is the wired object graph shared by the check commands.
type app struct {
	cfg      *config.Config
	logger   netres.Logger
	executor *retry.Executor
	service  *checks.Service
	gatherer *prometheus.Registry
}

func newApp(tcpFallback bool) (*app, error) {
	logger, err := logging.New(rootFlags.logFormat, rootFlags.verbose)
	if err != nil {
		return nil, err
	}
	return buildApp(tcpFallback, logger)
}

// buildApp wires the object graph around logger.
func buildApp(tcpFallback bool, logger netres.Logger) (*app, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load(filepath.Join(rootFlags.configDir, ".env"))

	cfg, err := config.Load(rootFlags.configDir)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		logger.Verbose("No %s in %s, using defaults", config.ConfigFileName, rootFlags.configDir)
		cfg = config.Default()
	case err != nil:
		return nil, err
	}

	policy, err := cfg.Retry.Policy()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(reg)

	executor := retry.NewExecutor(
		retry.NewClassifier(),
		health.NewAttemptLog(netres.DefaultAttemptHistoryLimit),
		health.NewRegistry(health.WithObserver(recorder.SetServiceHealth)),
		retry.WithLogger(logger),
		retry.WithMetrics(recorder),
	)

	service := checks.NewService(executor,
		checks.WithPolicy(policy),
		checks.WithLogger(logger),
		checks.WithTCPFallback(tcpFallback),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		executor: executor,
		service:  service,
		gatherer: reg,
	}, nil
}

// targets returns configured, environment-derived and extra targets,
// in that order.
func (a *app) targets(extra []checks.Target) []checks.Target {
	return append(a.cfg.Targets(db.LoadFromEnvironment()), extra...)
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/netres/internal/checks"
	"github.com/vvka-141/netres/internal/health"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run checks periodically and serve health and metrics",
	Long: `Serve runs all checks every --interval and exposes:

  GET /health           aggregated status (503 when any service is unhealthy)
  GET /health/attempts  recent attempt history per operation
  GET /metrics          Prometheus metrics

Examples:
  netres serve --addr :9090 --interval 15s`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

type serveFlagValues struct {
	adhocFlagValues
	addr     string
	interval time.Duration
}

var serveFlags serveFlagValues

func init() {
	rootCmd.AddCommand(serveCmd)
	registerAdhocFlags(serveCmd, &serveFlags.adhocFlagValues)

	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "",
		"Listen address (default: metrics_addr from netres.yaml, or :9090)")
	serveCmd.Flags().DurationVar(&serveFlags.interval, "interval", 0,
		"Time between check rounds (default: interval from netres.yaml, or 30s)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}

	targets, err := collectTargets(a, serveFlags.adhocFlagValues)
	if err != nil {
		return err
	}

	addr := serveFlags.addr
	if addr == "" {
		addr = a.cfg.MetricsAddr
	}
	interval := serveFlags.interval
	if interval <= 0 {
		interval = a.cfg.Interval
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := health.NewServer(addr, a.executor.Registry(), a.executor.Attempts(), a.gatherer)
	a.logger.Info("Serving health on %s, %d checks every %v", addr, len(targets), interval)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Stop(shutdownCtx)
	})
	g.Go(func() error {
		runRounds(ctx, a, targets, interval)
		return nil
	})

	return g.Wait()
}

// runRounds runs all targets immediately and then on every tick until ctx is done.
func runRounds(ctx context.Context, a *app, targets []checks.Target, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		outcomes := a.service.RunAll(ctx, targets)
		if ctx.Err() != nil {
			return
		}

		for _, o := range checks.Failed(outcomes) {
			a.logger.Error("%s: %s", o.Target.DisplayName(), o.Result.Error)
		}
		summary := a.service.HealthSummary()
		a.logger.Verbose("%d/%d services healthy", summary.HealthyCount, summary.TotalCount)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

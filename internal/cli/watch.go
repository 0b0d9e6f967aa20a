package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/netres/internal/checks"
	"github.com/vvka-141/netres/internal/logging"
	"github.com/vvka-141/netres/internal/tui"
)

var errNotInteractive = errors.New("watch needs an interactive terminal; use 'netres serve' or 'netres check' instead")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live terminal dashboard of all checks",
	Long: `Watch reruns all checks every --interval and shows their status in a
terminal dashboard. Press r to check immediately and q to quit.

Set NETRES_NON_INTERACTIVE=1 or CI=true to disable interactive mode.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

type watchFlagValues struct {
	adhocFlagValues
	interval time.Duration
}

var watchFlags watchFlagValues

func init() {
	rootCmd.AddCommand(watchCmd)
	registerAdhocFlags(watchCmd, &watchFlags.adhocFlagValues)

	watchCmd.Flags().DurationVar(&watchFlags.interval, "interval", 0,
		"Time between check rounds (default: interval from netres.yaml, or 30s)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !tui.IsInteractive() {
		return errNotInteractive
	}

	// Log lines would tear the alt screen
	a, err := buildApp(true, logging.NewNullLogger())
	if err != nil {
		return err
	}

	targets, err := collectTargets(a, watchFlags.adhocFlagValues)
	if err != nil {
		return err
	}

	interval := watchFlags.interval
	if interval <= 0 {
		interval = a.cfg.Interval
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := func(ctx context.Context) []checks.Outcome {
		return a.service.RunAll(ctx, targets)
	}
	return tui.RunDashboard(ctx, tui.NewDashboard(ctx, targets, run, interval))
}

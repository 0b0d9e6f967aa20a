package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/netres/internal/checks"
	"github.com/vvka-141/netres/internal/config"
	"github.com/vvka-141/netres/internal/db"
	"github.com/vvka-141/netres/pkg/netres"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run all checks once and report",
	Long: `Check runs every configured check concurrently, retrying transient
failures, and prints one line per check.

Checks are collected from:
  1. netres.yaml in --config-dir
  2. DATABASE_URL (or PGHOST/PGPORT/PGUSER/PGPASSWORD/PGDATABASE) and REDIS_URL
  3. --url, --http and --tcp flags

Database URLs may carry a driver suffix (postgresql+asyncpg://...). Schemes
without a built-in driver are checked with a TCP connect unless
--no-tcp-fallback is given.

Examples:
  # Check everything in ./netres.yaml
  netres check

  # Ad-hoc checks
  netres check --url postgresql://app@localhost/app --http http://localhost:8080/health
  netres check --tcp rabbitmq:5672 --json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

type checkFlagValues struct {
	adhocFlagValues
	json          bool
	noTCPFallback bool
}

var checkFlags checkFlagValues

func init() {
	rootCmd.AddCommand(checkCmd)
	registerAdhocFlags(checkCmd, &checkFlags.adhocFlagValues)

	checkCmd.Flags().BoolVar(&checkFlags.json, "json", false,
		"Print results as JSON")
	checkCmd.Flags().BoolVar(&checkFlags.noTCPFallback, "no-tcp-fallback", false,
		"Fail database checks whose scheme has no built-in driver instead of TCP-probing them")
}

func registerAdhocFlags(cmd *cobra.Command, f *adhocFlagValues) {
	cmd.Flags().StringArrayVar(&f.urls, "url", nil,
		"Database URL to check (repeatable)")
	cmd.Flags().StringArrayVar(&f.https, "http", nil,
		"HTTP URL to GET (repeatable)")
	cmd.Flags().StringArrayVar(&f.tcps, "tcp", nil,
		"host:port to dial (repeatable)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp(!checkFlags.noTCPFallback)
	if err != nil {
		return err
	}

	targets, err := collectTargets(a, checkFlags.adhocFlagValues)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	outcomes := a.service.RunAll(ctx, targets)

	out := cmd.OutOrStdout()
	if checkFlags.json {
		if err := writeJSON(out, outcomes); err != nil {
			return err
		}
	} else {
		writeReport(out, outcomes)
	}

	failed := checks.Failed(outcomes)
	switch {
	case len(failed) == 0:
		return nil
	case len(failed) == len(outcomes):
		return fmt.Errorf("all %d checks failed: %w", len(outcomes), netres.ErrConnectionFailed)
	default:
		return fmt.Errorf("%d of %d checks failed: %w", len(failed), len(outcomes), netres.ErrChecksFailed)
	}
}

// collectTargets merges configured and ad-hoc targets and validates that
// database URLs can be resolved to a checker.
func collectTargets(a *app, adhoc adhocFlagValues) ([]checks.Target, error) {
	extra, err := adhoc.targets()
	if err != nil {
		return nil, err
	}

	targets := a.targets(extra)
	if len(targets) == 0 {
		return nil, fmt.Errorf("no checks configured: add %s, set DATABASE_URL or pass --url/--http/--tcp: %w",
			config.ConfigFileName, netres.ErrInvalidConfig)
	}

	for _, t := range targets {
		if t.Kind != checks.KindDatabase {
			continue
		}
		if _, _, err := a.service.Resolve(t.URL); err != nil {
			return nil, fmt.Errorf("%s: %w", t.DisplayName(), err)
		}
	}
	return targets, nil
}

func writeReport(w io.Writer, outcomes []checks.Outcome) {
	healthy := 0
	for _, o := range outcomes {
		name := o.Target.DisplayName()
		r := o.Result

		switch {
		case r.Degraded:
			healthy++
			fmt.Fprintf(w, "~ %s: degraded after %s\n", name, plural(r.Attempts))
		case r.Success:
			healthy++
			fmt.Fprintf(w, "✓ %s (%s)\n", name, plural(r.Attempts))
		default:
			fmt.Fprintf(w, "✗ %s: %s\n", name, r.Error)
			if hint := hintFor(o); hint != "" {
				fmt.Fprintf(w, "    %s\n", strings.ReplaceAll(hint, "\n", "\n    "))
			}
		}
	}
	fmt.Fprintf(w, "\n%d/%d checks passed\n", healthy, len(outcomes))
}

type jsonOutcome struct {
	Name   string        `json:"name"`
	Kind   checks.Kind   `json:"kind"`
	Result netres.Result `json:"result"`
}

func writeJSON(w io.Writer, outcomes []checks.Outcome) error {
	report := make([]jsonOutcome, len(outcomes))
	for i, o := range outcomes {
		report[i] = jsonOutcome{Name: o.Target.DisplayName(), Kind: o.Target.Kind, Result: o.Result}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func hintFor(o checks.Outcome) string {
	if o.Target.Kind != checks.KindDatabase {
		return ""
	}
	target, err := db.Parse(o.Target.URL)
	if err != nil {
		return ""
	}
	return db.Hint(o.Result.Error, target)
}

func plural(n int) string {
	if n == 1 {
		return "1 attempt"
	}
	return fmt.Sprintf("%d attempts", n)
}

package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "netres",
	Short: "Resilient dependency health checks",
	Long: `netres checks the external dependencies of a service (HTTP endpoints,
TCP ports, PostgreSQL, Redis and other databases) with capped exponential
backoff, error classification and optional graceful degradation.

Checks come from netres.yaml in the config directory, from DATABASE_URL,
PGHOST and REDIS_URL, and from ad-hoc flags.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - No dependency reachable
  12 - One or more checks failed`,
	SilenceUsage: true,
}

type rootFlagValues struct {
	verbose   bool
	logFormat string
	configDir string
}

var rootFlags rootFlagValues

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false,
		"Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logFormat, "log-format", "console",
		"Log format: console|pretty")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configDir, "config-dir", ".",
		"Directory containing netres.yaml and .env")
}

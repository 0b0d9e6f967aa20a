package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/netres/internal/logging"
	"github.com/vvka-141/netres/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a starter netres.yaml",
	Long: `Init writes a starter netres.yaml (and .env.example for the basic
template) into the given directory, or the current directory.

Templates:
  basic    HTTP, PostgreSQL and Redis checks with the default retry policy
  minimal  A single DATABASE_URL check

Examples:
  netres init
  netres init ./deploy --template minimal --name orders`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

type initFlagValues struct {
	template string
	name     string
	force    bool
}

var initFlags initFlagValues

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initFlags.template, "template", "t", "basic",
		"Template to use: "+templateList())
	initCmd.Flags().StringVar(&initFlags.name, "name", "",
		"Project name used in the generated files (default: directory name)")
	initCmd.Flags().BoolVar(&initFlags.force, "force", false,
		"Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	name := initFlags.name
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		name = filepath.Base(abs)
	}

	logger := logging.NewConsoleLogger(rootFlags.verbose)
	files, err := scaffold.NewScaffolder(logger).Init(name, initFlags.template, dir, initFlags.force)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range files {
		fmt.Fprintf(out, "✓ %s\n", filepath.Join(dir, f))
	}
	fmt.Fprintf(out, "\nNext: edit the checks, then run 'netres check --config-dir %s'\n", dir)
	return nil
}

func templateList() string {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return "basic"
	}
	return strings.Join(templates, "|")
}

package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for netres.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// nonInteractiveEnv lists variables that force non-interactive mode when set
// to the given value ("" means any non-empty value).
var nonInteractiveEnv = []struct {
	name  string
	value string
}{
	{"NETRES_NON_INTERACTIVE", "1"},
	{"CI", ""},
	{"NO_COLOR", ""},
}

// DetectMode reports whether the dashboard can take over the terminal.
// Environment overrides win; otherwise both stdin and stdout must be terminals.
func DetectMode() Mode {
	for _, env := range nonInteractiveEnv {
		v := os.Getenv(env.name)
		if (env.value == "" && v != "") || (env.value != "" && v == env.value) {
			return ModeNonInteractive
		}
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

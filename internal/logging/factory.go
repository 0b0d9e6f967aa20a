package logging

import (
	"fmt"
	"os"

	"github.com/vvka-141/netres/pkg/netres"
)

// Supported log formats.
const (
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

// New returns a stderr logger for the given format.
func New(format string, verbose bool) (netres.Logger, error) {
	switch format {
	case "", FormatConsole:
		return NewConsoleLogger(verbose), nil
	case FormatPretty:
		return NewSlogLogger(os.Stderr, verbose), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want %s or %s): %w", format, FormatConsole, FormatPretty, netres.ErrInvalidConfig)
	}
}

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// SlogLogger adapts log/slog to netres.Logger. Messages are printf-formatted
// into the record message; Verbose maps to slog.LevelDebug.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a tint-backed logger writing to w. Colour is enabled
// only when w is a terminal.
func NewSlogLogger(w io.Writer, verbose bool) *SlogLogger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	})

	return &SlogLogger{logger: slog.New(handler)}
}

// NewSlogLoggerWithHandler wraps an existing slog handler.
func NewSlogLoggerWithHandler(h slog.Handler) *SlogLogger {
	return &SlogLogger{logger: slog.New(h)}
}

// Slog exposes the underlying structured logger.
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}

// Verbose logs at debug level.
func (l *SlogLogger) Verbose(format string, args ...interface{}) {
	l.logger.Debug(sprintf(format, args))
}

// Info logs at info level.
func (l *SlogLogger) Info(format string, args ...interface{}) {
	l.logger.Info(sprintf(format, args))
}

// Error logs at error level.
func (l *SlogLogger) Error(format string, args ...interface{}) {
	l.logger.Error(sprintf(format, args))
}

func sprintf(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

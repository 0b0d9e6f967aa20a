package logging

import "github.com/vvka-141/netres/pkg/netres"

var _ netres.Logger = (*NullLogger)(nil)

// NullLogger discards everything. It is the default for executors and
// services built without WithLogger, and for the watch dashboard, whose
// alternate screen would be torn by log lines.
type NullLogger struct{}

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(format string, args ...interface{}) {}
func (l *NullLogger) Info(format string, args ...interface{})    {}
func (l *NullLogger) Error(format string, args ...interface{})   {}

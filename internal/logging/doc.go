// Package logging provides concrete implementations of the netres.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes plain prefixed lines to stderr with thread-safe output
//   - SlogLogger: Structured log/slog output through a tint handler
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging

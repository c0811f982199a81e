// Package logging configures structured logging on top of log/slog.
// It parses level and format from configuration and hands out
// component-scoped child loggers.
package logging

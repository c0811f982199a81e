package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"tessera-hq/vesta/pkg/config"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in logfmt-style text.
	FormatText LogFormat = "text"
	// FormatConsole outputs logs in a human-readable console format.
	FormatConsole LogFormat = "console"
)

// New creates a *slog.Logger from the logging configuration, writing
// to w (os.Stdout when nil).
func New(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		// Console is the text handler without source annotations; it
		// exists as a named format so configs read naturally.
		if format == FormatConsole {
			opts.AddSource = false
		}
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler), nil
}

// Setup builds a logger from configuration and installs it as the
// process default. Returns the logger for explicit injection.
func Setup(cfg config.LoggingConfig) (*slog.Logger, error) {
	logger, err := New(cfg, nil)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// ParseLevel converts a level string to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown level %q", level)
}

// ParseFormat converts a format string to a LogFormat.
func ParseFormat(format string) (LogFormat, error) {
	switch format {
	case "json":
		return FormatJSON, nil
	case "text", "":
		return FormatText, nil
	case "console":
		return FormatConsole, nil
	}
	return FormatText, fmt.Errorf("unknown format %q", format)
}

// ForComponent returns a child logger tagged with the component name.
func ForComponent(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", name)
}

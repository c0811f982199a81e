// Package cli provides shared helpers for the vesta command line:
// typed command errors, output formatting, and signal-aware contexts
// for the long-lived commands.
package cli

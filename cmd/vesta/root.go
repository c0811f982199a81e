package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "vesta",
	Short: "Tessera Vesta - policy learning and shadow enforcement runtime",
	Long: `Tessera Vesta is a policy learning subsystem for automated trading
pipelines. It turns historical outcomes into versioned, auditable
policy state and measures what enforcing that state would have done,
without enforcing anything.

The learning loop:
  - observe: run observers over historical context, log candidates
  - compile: deduplicate and rank candidates into a new state version
  - gate:    expose the current state read-only (enforcement off)
  - shadow:  dry-run proposed orders against the current state

All candidate, state, and report rows are stored with SHA-256 content
hashes for integrity auditing.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tessera-hq/vesta/pkg/cli"
	"tessera-hq/vesta/pkg/learning/retention"
)

var pruneDays int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune aged candidate and report rows",
	Long: `Prune candidate and shadow report rows older than the configured
retention periods. State history is append-only and never pruned.

Examples:
  vesta prune

  # Override both retention periods for this run
  vesta prune --days 30`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().IntVar(&pruneDays, "days", 0, "override both retention periods (default from config)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	candidateDays := a.cfg.Retention.CandidateDays
	reportDays := a.cfg.Retention.ReportDays
	if pruneDays > 0 {
		candidateDays = pruneDays
		reportDays = pruneDays
	}

	pruner := retention.NewPruner(a.store, &retention.Config{
		CandidateDays: candidateDays,
		ReportDays:    reportDays,
	})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("prune", err)
	}

	fmt.Printf("pruned %d rows\n", deleted)
	return nil
}

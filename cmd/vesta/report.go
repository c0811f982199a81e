package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"tessera-hq/vesta/pkg/cli"
)

var reportFlags struct {
	runID string
	limit int
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect persisted shadow enforcement reports",
	Long: `Inspect persisted shadow enforcement reports. Without flags the
most recent report audit rows are listed; with --run-id the full
report for that run is shown.

Examples:
  vesta report
  vesta report --run-id run-2026-08-29
  vesta report --run-id run-2026-08-29 -o json`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportFlags.runID, "run-id", "", "show the full report for this run")
	reportCmd.Flags().IntVar(&reportFlags.limit, "limit", 20, "maximum number of rows to list")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if reportFlags.runID != "" {
		report, err := a.store.ReportByRunID(ctx, reportFlags.runID)
		if err != nil {
			return cli.NewCommandError("report", err)
		}
		if report == nil {
			return fmt.Errorf("no report found for run %q", reportFlags.runID)
		}
		if format == cli.FormatJSON {
			return cli.WriteJSON(os.Stdout, report)
		}
		fmt.Printf("run:      %s\n", report.RunID)
		fmt.Printf("report:   %s\n", report.ReportID)
		fmt.Printf("version:  %d\n", report.LearningVersion)
		fmt.Printf("at:       %s\n", report.EvaluatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("orders:   %d (blocked=%d biased=%d)\n",
			report.TotalOrders, report.BlockedCount, report.BiasedCount)
		for _, r := range report.ShadowResults {
			fmt.Printf("  %-8s block=%-5v bias=%-5v severity=%.2f  %s\n",
				r.Ticker, r.WouldBlock, r.WouldApplyBias, r.SeverityScore, r.ReasonSummary)
		}
		return nil
	}

	entries, err := a.store.ListReports(ctx, reportFlags.limit)
	if err != nil {
		return cli.NewCommandError("report", err)
	}
	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, entries)
	}
	if len(entries) == 0 {
		fmt.Println("no shadow reports")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.RunID,
			strconv.Itoa(e.LearningVersion),
			e.PayloadSHA256[:12],
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return cli.Table(os.Stdout, []string{"RUN ID", "VERSION", "SHA256", "CREATED"}, rows)
}

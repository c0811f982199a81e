package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tessera-hq/vesta/pkg/cli"
	"tessera-hq/vesta/pkg/learning"
	"tessera-hq/vesta/pkg/learning/shadow"
)

var shadowFlags struct {
	ordersFile string
	runID      string
}

var shadowCmd = &cobra.Command{
	Use:   "shadow",
	Short: "Evaluate proposed orders against the current state",
	Long: `Evaluate a batch of proposed orders against the current learning
state without affecting them. Each order is checked against banned
patterns, hard caps, and soft biases in that precedence; the outcome
is a persisted shadow enforcement report.

With no compiled state the report carries version 0 and zero counts
and is printed but not persisted.

The orders file is a JSON array of objects with at least a "ticker"
field:

  [{"ticker": "SPY"}, {"ticker": "QQQ", "worldview_ref": "wv-12"}]

Examples:
  vesta shadow --orders orders.json
  vesta shadow --orders orders.json --run-id run-2026-08-29 -o json`,
	RunE: runShadow,
}

func init() {
	rootCmd.AddCommand(shadowCmd)

	shadowCmd.Flags().StringVar(&shadowFlags.ordersFile, "orders", "", "path to the proposed orders JSON file (required)")
	shadowCmd.Flags().StringVar(&shadowFlags.runID, "run-id", "", "pipeline run identifier (default: generated)")
	shadowCmd.MarkFlagRequired("orders")
}

func runShadow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	orders, err := loadOrders(shadowFlags.ordersFile)
	if err != nil {
		return err
	}

	runID := shadowFlags.runID
	if runID == "" {
		runID = uuid.New().String()
	}

	ctx := context.Background()
	state, err := a.store.LoadCurrentState(ctx)
	if err != nil {
		return cli.NewCommandError("shadow", err)
	}

	report, err := shadow.New(a.store, a.logger, a.metrics).Evaluate(ctx, orders, state, runID)
	if err != nil {
		return cli.NewCommandError("shadow", err)
	}

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, report)
	}

	fmt.Printf("run:       %s\n", report.RunID)
	fmt.Printf("report:    %s\n", report.ReportID)
	fmt.Printf("version:   %d\n", report.LearningVersion)
	fmt.Printf("orders:    %d (blocked=%d biased=%d)\n",
		report.TotalOrders, report.BlockedCount, report.BiasedCount)
	for _, r := range report.ShadowResults {
		if !r.WouldBlock && !r.WouldApplyBias {
			continue
		}
		fmt.Printf("  %-8s severity=%.2f  %s\n", r.Ticker, r.SeverityScore, r.ReasonSummary)
	}
	return nil
}

// loadOrders reads a JSON array of proposed orders from disk.
func loadOrders(path string) ([]learning.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders file: %w", err)
	}
	var orders []learning.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("failed to parse orders file %s: %w", path, err)
	}
	return orders, nil
}

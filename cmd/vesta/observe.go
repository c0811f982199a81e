package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tessera-hq/vesta/pkg/cli"
	"tessera-hq/vesta/pkg/learning/observe"
)

var observeFlags struct {
	contextPath string
	dryRun      bool
}

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Run observers over a context snapshot and persist candidates",
	Long: `Run the registered observers over a historical context snapshot and
append the resulting candidates to the candidate log.

The context snapshot is a JSON object; the reference observers read an
optional "history_samples" list of sample objects with optional
"drawdown", "reversals_7d", "symbol" and "date" fields.

A failing observer is logged and excluded; the others still run. A
failed row append skips that row only.

Examples:
  # Persist candidates from a snapshot
  vesta observe --context snapshot.json

  # Show what would be persisted, without writing
  vesta observe --context snapshot.json --dry-run`,
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)

	observeCmd.Flags().StringVar(&observeFlags.contextPath, "context", "", "context snapshot JSON file (required)")
	observeCmd.Flags().BoolVar(&observeFlags.dryRun, "dry-run", false, "emit candidates without persisting")
	observeCmd.MarkFlagRequired("context")
}

func runObserve(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	obsCtx, err := loadObserveContext(observeFlags.contextPath)
	if err != nil {
		return cli.NewCommandError("observe", err)
	}

	registry := observe.NewRegistry(a.logger,
		observe.NewDrawdownObserver(a.cfg.Learning.DrawdownThreshold),
		observe.NewChurnObserver(a.cfg.Learning.ChurnReversalThreshold),
	)

	candidates := registry.Run(obsCtx)
	perObserver := make(map[string]int)
	for _, cand := range candidates {
		perObserver[cand.Source]++
	}
	for name, count := range perObserver {
		a.metrics.RecordCandidatesObserved(name, count)
	}

	if observeFlags.dryRun {
		return cli.WriteJSON(os.Stdout, candidates)
	}

	result := a.store.AppendCandidates(context.Background(), candidates)
	a.metrics.RecordCandidatesPersisted(result.Persisted, len(result.Skipped))

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, map[string]interface{}{
			"observed":  len(candidates),
			"persisted": result.Persisted,
			"skipped":   len(result.Skipped),
		})
	}

	fmt.Printf("observed %d candidates, persisted %d, skipped %d\n",
		len(candidates), result.Persisted, len(result.Skipped))
	return nil
}

// loadObserveContext reads and decodes a context snapshot file.
func loadObserveContext(path string) (observe.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context snapshot: %w", err)
	}
	var obsCtx observe.Context
	if err := json.Unmarshal(data, &obsCtx); err != nil {
		return nil, fmt.Errorf("parse context snapshot: %w", err)
	}
	return obsCtx, nil
}

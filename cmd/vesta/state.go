package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"tessera-hq/vesta/pkg/cli"
)

var stateHistoryLimit int

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the compiled learning state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current learning state",
	Long: `Show the current learning state: the latest compiled version with
its hard caps, soft biases, and banned patterns.

Examples:
  # Human readable summary
  vesta state show

  # Full state document as JSON
  vesta state show -o json`,
	RunE: runStateShow,
}

var stateHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List the append-only state history",
	Long: `List the append-only state history log, newest first. Every saved
version appears here with its payload hash; history rows are never
rewritten or deleted.

Examples:
  vesta state history
  vesta state history --limit 5 -o json`,
	RunE: runStateHistory,
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateHistoryCmd)

	stateHistoryCmd.Flags().IntVar(&stateHistoryLimit, "limit", 20, "maximum number of history rows")
}

func runStateShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := a.store.LoadCurrentState(context.Background())
	if err != nil {
		return cli.NewCommandError("state show", err)
	}

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	if state == nil {
		if format == cli.FormatJSON {
			return cli.WriteJSON(os.Stdout, nil)
		}
		fmt.Println("no learning state compiled yet")
		return nil
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, state)
	}

	fmt.Printf("version:    %d\n", state.Version)
	fmt.Printf("generated:  %s\n", state.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("summary:    %s\n", state.ContextSignatureSummary)
	fmt.Printf("hard caps:  %d\n", len(state.HardCaps))
	for _, hc := range state.HardCaps {
		fmt.Printf("  [%s] %s (confidence %.2f)\n", hc.Level, hc.Rule, hc.Confidence)
	}
	fmt.Printf("soft bias:  %d\n", len(state.SoftBias))
	for _, sb := range state.SoftBias {
		fmt.Printf("  [%s] %s (confidence %.2f)\n", sb.Level, sb.Rule, sb.Confidence)
	}
	fmt.Printf("banned:     %d\n", len(state.BannedPatterns))
	for _, bp := range state.BannedPatterns {
		fmt.Printf("  [%s] %s -> %s (confidence %.2f)\n", bp.Level, bp.Signature, bp.Action, bp.Confidence)
	}
	return nil
}

func runStateHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.store.StateHistory(context.Background(), stateHistoryLimit)
	if err != nil {
		return cli.NewCommandError("state history", err)
	}

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, entries)
	}

	if len(entries) == 0 {
		fmt.Println("no state history")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Version),
			e.PayloadSHA256[:12],
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.LogID,
		})
	}
	return cli.Table(os.Stdout, []string{"VERSION", "SHA256", "CREATED", "LOG ID"}, rows)
}

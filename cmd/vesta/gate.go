package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tessera-hq/vesta/pkg/cli"
	"tessera-hq/vesta/pkg/learning/gate"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Show the gate context over the current learning state",
	Long: `Show the gate context: the learning version, per-category policy
counts, and the summary signature an execution path would log before
placing orders. With no compiled state the gate reports version 0 and
the fixed empty-state signature.

Enforcement is always off; the gate context is advisory and used only
for log correlation.

Examples:
  vesta gate
  vesta gate -o json`,
	RunE: runGate,
}

func init() {
	rootCmd.AddCommand(gateCmd)
}

func runGate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	gctx, err := gate.New(a.store, a.logger).Load(context.Background())
	if err != nil {
		return cli.NewCommandError("gate", err)
	}

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, gctx)
	}

	fmt.Printf("learning version:  %d\n", gctx.LearningVersion)
	fmt.Printf("hard caps:         %d\n", gctx.HardCapsCount)
	fmt.Printf("soft bias:         %d\n", gctx.SoftBiasCount)
	fmt.Printf("banned patterns:   %d\n", gctx.BannedPatternsCount)
	fmt.Printf("summary signature: %s\n", gctx.SummarySignature)
	fmt.Printf("enforcement mode:  %s\n", gctx.EnforcementMode)
	return nil
}

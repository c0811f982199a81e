package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tessera-hq/vesta/pkg/cli"
	"tessera-hq/vesta/pkg/learning/compiler"
)

var compileFlags struct {
	lookbackDays int
	force        bool
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile recent candidates into a new learning state",
	Long: `Compile the recent candidate window into a new versioned learning
state: deduplicate by (category, level, proposal) keeping the higher
confidence, rank per category, truncate to the top-K, and save
atomically to the singleton current table and the history log.

Recompiling unchanged source data is a no-op: the version does not
advance and nothing is written.

Examples:
  # Compile with the configured lookback window
  vesta compile

  # Compile a 14 day window
  vesta compile --lookback 14

  # Force a new version even if nothing changed
  vesta compile --force`,
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().IntVar(&compileFlags.lookbackDays, "lookback", 0, "candidate window in days (default from config)")
	compileCmd.Flags().BoolVar(&compileFlags.force, "force", false, "skip the idempotency check")
}

func runCompile(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	lookback := compileFlags.lookbackDays
	if lookback <= 0 {
		lookback = a.cfg.Learning.LookbackDays
	}

	comp := compiler.New(a.store, a.logger, a.metrics).WithTopK(compiler.TopK{
		HardCaps:       a.cfg.Learning.TopKHardCaps,
		SoftBias:       a.cfg.Learning.TopKSoftBias,
		BannedPatterns: a.cfg.Learning.TopKBannedPatterns,
	})

	result, err := comp.Compile(context.Background(), compiler.Options{
		LookbackDays:    lookback,
		ForceNewVersion: compileFlags.force,
	})
	if err != nil {
		return cli.NewCommandError("compile", err)
	}

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, result)
	}

	if result.Outcome == compiler.OutcomeNoChange {
		fmt.Printf("no change (%d candidates seen, %d after dedup)\n",
			result.CandidatesSeen, result.Deduplicated)
		return nil
	}

	fmt.Printf("saved learning state v%d (caps=%d bias=%d bans=%d, %d candidates seen)\n",
		result.State.Version,
		len(result.State.HardCaps),
		len(result.State.SoftBias),
		len(result.State.BannedPatterns),
		result.CandidatesSeen,
	)
	return nil
}

package main

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tessera-hq/vesta/pkg/cli"
	"tessera-hq/vesta/pkg/config"
	"tessera-hq/vesta/pkg/learning/compiler"
	"tessera-hq/vesta/pkg/learning/observe"
	"tessera-hq/vesta/pkg/learning/retention"
)

var watchFlags struct {
	contextDir string
	debounce   time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a context snapshot directory and run the learning loop",
	Long: `Watch a directory for context snapshot files and run the learning
loop on each change: observers over the new snapshot, candidate
persistence, then a recompile. Unchanged source data leaves the state
version untouched.

When a metrics listen address is configured the Prometheus endpoint is
served for the lifetime of the command, and when a prune schedule is
configured retention runs on that cron schedule.

Examples:
  vesta watch --context-dir ./snapshots
  vesta watch --context-dir ./snapshots --debounce 1s`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.contextDir, "context-dir", "", "directory of context snapshot JSON files (required)")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", config.DefaultDebounceInterval, "wait after the last change before processing")
	watchCmd.MarkFlagRequired("context-dir")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cli.SetupSignalHandler()

	if addr := a.cfg.Telemetry.Metrics.ListenAddress; addr != "" && a.cfg.Telemetry.Metrics.Enabled {
		go func() {
			if err := a.metrics.Serve(ctx, addr, a.logger); err != nil {
				a.logger.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	if a.cfg.Retention.PruneSchedule != "" {
		pruner := retention.NewPruner(a.store, &retention.Config{
			CandidateDays: a.cfg.Retention.CandidateDays,
			ReportDays:    a.cfg.Retention.ReportDays,
			PruneSchedule: a.cfg.Retention.PruneSchedule,
		})
		sched := retention.NewScheduler(pruner)
		if err := sched.Start(ctx); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer sched.Stop()
	}

	watcher, err := config.NewWatcher(watchFlags.contextDir, watchFlags.debounce, a.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	comp := compiler.New(a.store, a.logger, a.metrics).WithTopK(compiler.TopK{
		HardCaps:       a.cfg.Learning.TopKHardCaps,
		SoftBias:       a.cfg.Learning.TopKSoftBias,
		BannedPatterns: a.cfg.Learning.TopKBannedPatterns,
	})
	registry := observe.NewRegistry(a.logger,
		observe.NewDrawdownObserver(a.cfg.Learning.DrawdownThreshold),
		observe.NewChurnObserver(a.cfg.Learning.ChurnReversalThreshold),
	)

	a.logger.Info("learning loop started", "context_dir", watchFlags.contextDir)

	// Loop errors are logged by the watcher and never stop the watch.
	return watcher.Watch(ctx, func(path string) error {
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		return a.runLearningCycle(ctx, registry, comp, path)
	})
}

// runLearningCycle processes one changed snapshot: observe, persist,
// recompile.
func (a *app) runLearningCycle(ctx context.Context, registry *observe.Registry, comp *compiler.Compiler, path string) error {
	obsCtx, err := loadObserveContext(path)
	if err != nil {
		return err
	}

	candidates := registry.Run(obsCtx)
	perObserver := make(map[string]int)
	for _, cand := range candidates {
		perObserver[cand.Source]++
	}
	for name, count := range perObserver {
		a.metrics.RecordCandidatesObserved(name, count)
	}

	if len(candidates) > 0 {
		result := a.store.AppendCandidates(ctx, candidates)
		a.metrics.RecordCandidatesPersisted(result.Persisted, len(result.Skipped))
		a.logger.Info("candidates persisted",
			"snapshot", filepath.Base(path),
			"observed", len(candidates),
			"persisted", result.Persisted,
			"skipped", len(result.Skipped),
		)
	}

	result, err := comp.Compile(ctx, compiler.Options{
		LookbackDays: a.cfg.Learning.LookbackDays,
	})
	if err != nil {
		return err
	}
	if result.Outcome == compiler.OutcomeSaved {
		a.logger.Info("learning state advanced", "version", result.State.Version)
	}
	return nil
}

package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tessera-hq/vesta/pkg/learning/storage"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// CandidateDays is the number of days to retain candidate rows.
	// 0 means keep candidates forever.
	CandidateDays int

	// ReportDays is the number of days to retain shadow reports.
	// 0 means keep reports forever.
	ReportDays int

	// PruneSchedule is a cron expression for scheduled pruning, for
	// example "0 3 * * *" (daily at 3 AM). Empty disables scheduling;
	// one-shot pruning still works.
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		CandidateDays: 90,
		ReportDays:    90,
		PruneSchedule: "",
	}
}

// Pruner enforces retention on the append-only logs.
type Pruner struct {
	store  storage.Store
	config *Config
	logger *slog.Logger
}

// NewPruner creates a pruner over the given store.
func NewPruner(store storage.Store, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "learning.retention"),
	}
}

// Prune deletes candidate rows older than CandidateDays and report
// rows older than ReportDays. Returns the total number of rows
// deleted. A zero retention period skips that log entirely.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64
	now := time.Now().UTC()

	if p.config.CandidateDays > 0 {
		cutoff := now.AddDate(0, 0, -p.config.CandidateDays)
		deleted, err := p.store.PruneCandidatesBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("prune candidates: %w", err)
		}
		total += deleted
		p.logger.Info("pruned candidate rows",
			"deleted_count", deleted,
			"retention_days", p.config.CandidateDays,
		)
	}

	if p.config.ReportDays > 0 {
		cutoff := now.AddDate(0, 0, -p.config.ReportDays)
		deleted, err := p.store.PruneReportsBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("prune reports: %w", err)
		}
		total += deleted
		p.logger.Info("pruned shadow report rows",
			"deleted_count", deleted,
			"retention_days", p.config.ReportDays,
		)
	}

	return total, nil
}

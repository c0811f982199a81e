package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid values. It is called
// after defaults and after environment overrides.
func Validate(cfg *Config) error {
	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if cfg.Storage.MaxOpenConns < 1 {
		return fmt.Errorf("storage.max_open_conns must be >= 1, got %d", cfg.Storage.MaxOpenConns)
	}
	if cfg.Storage.MaxIdleConns < 0 {
		return fmt.Errorf("storage.max_idle_conns must be >= 0, got %d", cfg.Storage.MaxIdleConns)
	}
	if cfg.Storage.BusyTimeout < 0 {
		return fmt.Errorf("storage.busy_timeout must not be negative")
	}

	if cfg.Learning.LookbackDays < 1 {
		return fmt.Errorf("learning.lookback_days must be >= 1, got %d", cfg.Learning.LookbackDays)
	}
	if cfg.Learning.TopKHardCaps < 1 {
		return fmt.Errorf("learning.top_k_hard_caps must be >= 1, got %d", cfg.Learning.TopKHardCaps)
	}
	if cfg.Learning.TopKSoftBias < 1 {
		return fmt.Errorf("learning.top_k_soft_bias must be >= 1, got %d", cfg.Learning.TopKSoftBias)
	}
	if cfg.Learning.TopKBannedPatterns < 1 {
		return fmt.Errorf("learning.top_k_banned_patterns must be >= 1, got %d", cfg.Learning.TopKBannedPatterns)
	}
	if cfg.Learning.DrawdownThreshold <= 0 || cfg.Learning.DrawdownThreshold >= 1 {
		return fmt.Errorf("learning.drawdown_threshold must be in (0, 1), got %g", cfg.Learning.DrawdownThreshold)
	}
	if cfg.Learning.ChurnReversalThreshold < 1 {
		return fmt.Errorf("learning.churn_reversal_threshold must be >= 1, got %d", cfg.Learning.ChurnReversalThreshold)
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error; got %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text", "console":
	default:
		return fmt.Errorf("telemetry.logging.format must be one of json, text, console; got %q", cfg.Telemetry.Logging.Format)
	}

	if cfg.Retention.CandidateDays < 0 {
		return fmt.Errorf("retention.candidate_days must be >= 0, got %d", cfg.Retention.CandidateDays)
	}
	if cfg.Retention.ReportDays < 0 {
		return fmt.Errorf("retention.report_days must be >= 0, got %d", cfg.Retention.ReportDays)
	}
	if cfg.Retention.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.PruneSchedule); err != nil {
			return fmt.Errorf("retention.prune_schedule is not a valid cron expression: %w", err)
		}
	}

	return nil
}

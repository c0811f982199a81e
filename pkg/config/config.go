package config

import "time"

// Config is the root Vesta configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Learning  LearningConfig  `yaml:"learning"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Retention RetentionConfig `yaml:"retention"`
}

// StorageConfig configures the SQLite persistence backend.
type StorageConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is how long to wait when the database is locked.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// LearningConfig configures the observer set and the compiler.
type LearningConfig struct {
	// LookbackDays is the compiler's candidate window.
	LookbackDays int `yaml:"lookback_days"`

	// TopKHardCaps bounds compiled hard-cap policies per state.
	TopKHardCaps int `yaml:"top_k_hard_caps"`

	// TopKSoftBias bounds compiled soft-bias policies per state.
	TopKSoftBias int `yaml:"top_k_soft_bias"`

	// TopKBannedPatterns bounds compiled banned patterns per state.
	TopKBannedPatterns int `yaml:"top_k_banned_patterns"`

	// DrawdownThreshold is the drawdown fraction that triggers the
	// drawdown observer.
	DrawdownThreshold float64 `yaml:"drawdown_threshold"`

	// ChurnReversalThreshold is the 7 day reversal count that triggers
	// the churn observer.
	ChurnReversalThreshold int `yaml:"churn_reversal_threshold"`
}

// TelemetryConfig groups logging and metrics configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text", "console").
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric namespace. Default "tessera".
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem. Default "vesta".
	Subsystem string `yaml:"subsystem"`

	// ListenAddress serves /metrics in long-lived commands when set.
	ListenAddress string `yaml:"listen_address"`
}

// RetentionConfig configures pruning of the append-only logs. State
// history is never pruned.
type RetentionConfig struct {
	// CandidateDays retains candidate rows this many days. 0 keeps
	// them forever.
	CandidateDays int `yaml:"candidate_days"`

	// ReportDays retains shadow reports this many days. 0 keeps them
	// forever.
	ReportDays int `yaml:"report_days"`

	// PruneSchedule is a cron expression for scheduled pruning inside
	// long-lived commands. Empty disables scheduling.
	PruneSchedule string `yaml:"prune_schedule"`
}

package config

import "time"

// Default values for configuration fields.
const (
	// Storage defaults
	DefaultStoragePath         = "data/vesta.db"
	DefaultStorageMaxOpenConns = 10
	DefaultStorageMaxIdleConns = 5
	DefaultStorageBusyTimeout  = 5 * time.Second

	// Learning defaults
	DefaultLookbackDays           = 7
	DefaultTopKHardCaps           = 20
	DefaultTopKSoftBias           = 20
	DefaultTopKBannedPatterns     = 50
	DefaultDrawdownThreshold      = 0.2
	DefaultChurnReversalThreshold = 3

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// Metrics defaults
	DefaultMetricsNamespace = "tessera"
	DefaultMetricsSubsystem = "vesta"

	// Retention defaults
	DefaultRetentionCandidateDays = 90
	DefaultRetentionReportDays    = 90
)

// ApplyDefaults fills zero-valued fields with defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Storage.MaxOpenConns == 0 {
		cfg.Storage.MaxOpenConns = DefaultStorageMaxOpenConns
	}
	if cfg.Storage.MaxIdleConns == 0 {
		cfg.Storage.MaxIdleConns = DefaultStorageMaxIdleConns
	}
	if cfg.Storage.BusyTimeout == 0 {
		cfg.Storage.BusyTimeout = DefaultStorageBusyTimeout
	}

	if cfg.Learning.LookbackDays == 0 {
		cfg.Learning.LookbackDays = DefaultLookbackDays
	}
	if cfg.Learning.TopKHardCaps == 0 {
		cfg.Learning.TopKHardCaps = DefaultTopKHardCaps
	}
	if cfg.Learning.TopKSoftBias == 0 {
		cfg.Learning.TopKSoftBias = DefaultTopKSoftBias
	}
	if cfg.Learning.TopKBannedPatterns == 0 {
		cfg.Learning.TopKBannedPatterns = DefaultTopKBannedPatterns
	}
	if cfg.Learning.DrawdownThreshold == 0 {
		cfg.Learning.DrawdownThreshold = DefaultDrawdownThreshold
	}
	if cfg.Learning.ChurnReversalThreshold == 0 {
		cfg.Learning.ChurnReversalThreshold = DefaultChurnReversalThreshold
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	if cfg.Retention.CandidateDays == 0 {
		cfg.Retention.CandidateDays = DefaultRetentionCandidateDays
	}
	if cfg.Retention.ReportDays == 0 {
		cfg.Retention.ReportDays = DefaultRetentionReportDays
	}
}

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults,
// and validates the result. A missing path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention VESTA_SECTION_FIELD (e.g. VESTA_STORAGE_PATH) and always
// take precedence over file values.
//
// The loading sequence is:
//  1. Load YAML from file (defaults already applied)
//  2. Apply environment variable overrides
//  3. Validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies VESTA_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) {
	// Storage overrides
	if val := os.Getenv("VESTA_STORAGE_PATH"); val != "" {
		cfg.Storage.Path = val
	}
	if val := os.Getenv("VESTA_STORAGE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Storage.BusyTimeout = d
		}
	}
	if val := os.Getenv("VESTA_STORAGE_MAX_OPEN_CONNS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Storage.MaxOpenConns = i
		}
	}

	// Learning overrides
	if val := os.Getenv("VESTA_LEARNING_LOOKBACK_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Learning.LookbackDays = i
		}
	}
	if val := os.Getenv("VESTA_LEARNING_DRAWDOWN_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Learning.DrawdownThreshold = f
		}
	}
	if val := os.Getenv("VESTA_LEARNING_CHURN_REVERSAL_THRESHOLD"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Learning.ChurnReversalThreshold = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("VESTA_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("VESTA_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("VESTA_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("VESTA_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}

	// Retention overrides
	if val := os.Getenv("VESTA_RETENTION_CANDIDATE_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retention.CandidateDays = i
		}
	}
	if val := os.Getenv("VESTA_RETENTION_REPORT_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retention.ReportDays = i
		}
	}
	if val := os.Getenv("VESTA_RETENTION_PRUNE_SCHEDULE"); val != "" {
		cfg.Retention.PruneSchedule = val
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfigFile writes YAML to a temp file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// TestLoadConfig_Defaults tests that an empty path yields defaults.
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Storage.Path != DefaultStoragePath {
		t.Errorf("expected default storage path, got %s", cfg.Storage.Path)
	}
	if cfg.Learning.LookbackDays != DefaultLookbackDays {
		t.Errorf("expected lookback %d, got %d", DefaultLookbackDays, cfg.Learning.LookbackDays)
	}
	if cfg.Learning.TopKBannedPatterns != DefaultTopKBannedPatterns {
		t.Errorf("expected top-k %d, got %d", DefaultTopKBannedPatterns, cfg.Learning.TopKBannedPatterns)
	}
	if cfg.Telemetry.Logging.Level != "info" {
		t.Errorf("expected info level, got %s", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.Namespace != "tessera" || cfg.Telemetry.Metrics.Subsystem != "vesta" {
		t.Errorf("unexpected metric naming: %s/%s",
			cfg.Telemetry.Metrics.Namespace, cfg.Telemetry.Metrics.Subsystem)
	}
	if cfg.Retention.CandidateDays != 90 {
		t.Errorf("expected 90 day candidate retention, got %d", cfg.Retention.CandidateDays)
	}
}

// TestLoadConfig_FromFile tests YAML parsing with partial overrides.
func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  path: /tmp/custom.db
  busy_timeout: 10s
learning:
  lookback_days: 14
  drawdown_threshold: 0.3
telemetry:
  logging:
    level: debug
    format: json
retention:
  prune_schedule: "0 3 * * *"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Storage.Path != "/tmp/custom.db" {
		t.Errorf("unexpected path: %s", cfg.Storage.Path)
	}
	if cfg.Storage.BusyTimeout != 10*time.Second {
		t.Errorf("unexpected busy timeout: %v", cfg.Storage.BusyTimeout)
	}
	if cfg.Learning.LookbackDays != 14 {
		t.Errorf("unexpected lookback: %d", cfg.Learning.LookbackDays)
	}
	if cfg.Learning.DrawdownThreshold != 0.3 {
		t.Errorf("unexpected threshold: %v", cfg.Learning.DrawdownThreshold)
	}
	if cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("unexpected format: %s", cfg.Telemetry.Logging.Format)
	}

	// Unset fields still get defaults
	if cfg.Learning.TopKHardCaps != DefaultTopKHardCaps {
		t.Errorf("expected default top-k, got %d", cfg.Learning.TopKHardCaps)
	}
	if cfg.Retention.PruneSchedule != "0 3 * * *" {
		t.Errorf("unexpected schedule: %s", cfg.Retention.PruneSchedule)
	}
}

// TestLoadConfig_MissingFile tests the error for an unreadable path.
func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestLoadConfig_InvalidYAML tests the parse error path.
func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "storage: [not: a: mapping")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

// TestLoadConfigWithEnvOverrides tests that VESTA_* variables beat
// file values.
func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  path: /tmp/from-file.db
learning:
  lookback_days: 14
`)

	t.Setenv("VESTA_STORAGE_PATH", "/tmp/from-env.db")
	t.Setenv("VESTA_LEARNING_LOOKBACK_DAYS", "21")
	t.Setenv("VESTA_LOG_LEVEL", "warn")
	t.Setenv("VESTA_METRICS_ENABLED", "true")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Storage.Path != "/tmp/from-env.db" {
		t.Errorf("env override lost: %s", cfg.Storage.Path)
	}
	if cfg.Learning.LookbackDays != 21 {
		t.Errorf("env override lost: %d", cfg.Learning.LookbackDays)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("env override lost: %s", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("env override lost: metrics should be enabled")
	}
}

// TestLoadConfigWithEnvOverrides_InvalidValue tests that a bad env
// override fails validation.
func TestLoadConfigWithEnvOverrides_InvalidValue(t *testing.T) {
	t.Setenv("VESTA_LOG_LEVEL", "loud")

	if _, err := LoadConfigWithEnvOverrides(""); err == nil {
		t.Fatal("expected validation failure for invalid level")
	}
}

// TestValidate tests the rejection cases.
func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty storage path", func(c *Config) { c.Storage.Path = "" }},
		{"zero lookback", func(c *Config) { c.Learning.LookbackDays = 0 }},
		{"negative top-k", func(c *Config) { c.Learning.TopKHardCaps = -1 }},
		{"threshold above one", func(c *Config) { c.Learning.DrawdownThreshold = 1.5 }},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }},
		{"negative retention", func(c *Config) { c.Retention.CandidateDays = -1 }},
		{"bad cron schedule", func(c *Config) { c.Retention.PruneSchedule = "whenever" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}

	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// TestSingleton tests Initialize, GetConfig and Reset.
func TestSingleton(t *testing.T) {
	Reset()
	defer Reset()

	if GetConfig() != nil {
		t.Fatal("expected nil before Initialize")
	}
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected config after Initialize")
	}

	// Second Initialize is a no-op
	if err := Initialize("/nonexistent/config.yaml"); err != nil {
		t.Fatalf("repeated Initialize() should be ignored: %v", err)
	}
	if GetConfig() != cfg {
		t.Error("repeated Initialize() must not replace the config")
	}

	replacement := DefaultConfig()
	SetConfig(replacement)
	if GetConfig() != replacement {
		t.Error("SetConfig did not replace the instance")
	}
}

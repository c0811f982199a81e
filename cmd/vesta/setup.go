package main

import (
	"fmt"
	"log/slog"

	"tessera-hq/vesta/pkg/cli"
	"tessera-hq/vesta/pkg/config"
	"tessera-hq/vesta/pkg/learning/storage"
	"tessera-hq/vesta/pkg/telemetry/logging"
	"tessera-hq/vesta/pkg/telemetry/metrics"
)

// app bundles the wired runtime a command needs: configuration,
// logger, store handle, and the metrics collector. The store handle is
// owned here and injected into components; commands must Close it.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   storage.Store
	metrics *metrics.Collector
}

// newApp loads configuration, sets up logging, and opens the store.
func newApp() (*app, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(cfg.Telemetry.Logging)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
		Path:         cfg.Storage.Path,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
		MaxIdleConns: cfg.Storage.MaxIdleConns,
		BusyTimeout:  cfg.Storage.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
	}, nil
}

// Close releases the store handle.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

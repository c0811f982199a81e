package config

import (
	"sync"
)

var (
	// globalConfig holds the singleton configuration instance.
	globalConfig *Config

	// configMutex protects access to globalConfig.
	configMutex sync.RWMutex

	// initOnce ensures configuration is initialized only once.
	initOnce sync.Once
)

// Initialize loads configuration from the specified path with
// environment variable overrides and stores it as the process-wide
// singleton. Call once at startup; subsequent calls are ignored.
//
// The learning core never reads this singleton: components receive
// explicit options and handles. Only the CLI entry points use it.
func Initialize(path string) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}

		configMutex.Lock()
		globalConfig = cfg
		configMutex.Unlock()
	})

	return initErr
}

// GetConfig returns the global configuration instance, or nil if
// Initialize has not been called successfully. Thread-safe.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the global configuration instance. Intended for
// tests; production code uses Initialize.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// Reset clears the singleton so Initialize can run again. Tests only.
func Reset() {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = nil
	initOnce = sync.Once{}
}

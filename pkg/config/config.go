// Package config provides environment-based configuration and the YAML
// manifest describing build targets and monitored services.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all process-level configuration for the optimizer.
type Config struct {
	// Logging
	LogLevel string
	LogJSON  bool

	// Build pipeline
	CacheDir    string
	MaxCacheAge time.Duration

	// Monitoring loop
	Monitor MonitorConfig

	// Report artifacts
	ReportDir string

	// Optional scaling-history database (empty disables the store)
	DatabaseURL string

	// Status HTTP server port (0 disables the server)
	StatusPort int

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// MonitorConfig holds control-loop specific configuration.
type MonitorConfig struct {
	Interval       time.Duration
	SampleSize     int
	SampleDelay    time.Duration
	ProbeTimeout   time.Duration
	WindowCapacity int
	ReportEachTick bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogJSON:         getBoolEnv("LOG_JSON", true),
		CacheDir:        getEnv("BUILD_CACHE_DIR", ".build-cache"),
		MaxCacheAge:     getDurationEnv("BUILD_CACHE_MAX_AGE", 24*time.Hour),
		ReportDir:       getEnv("REPORT_DIR", "performance-reports"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		StatusPort:      getIntEnv("STATUS_PORT", 0),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		Monitor: MonitorConfig{
			Interval:       getDurationEnv("MONITOR_INTERVAL", 60*time.Second),
			SampleSize:     getIntEnv("MONITOR_SAMPLE_SIZE", 10),
			SampleDelay:    getDurationEnv("MONITOR_SAMPLE_DELAY", 100*time.Millisecond),
			ProbeTimeout:   getDurationEnv("MONITOR_PROBE_TIMEOUT", 10*time.Second),
			WindowCapacity: getIntEnv("MONITOR_WINDOW_CAPACITY", 100),
			ReportEachTick: getBoolEnv("MONITOR_REPORT_EACH_TICK", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be positive")
	}
	if c.Monitor.SampleSize <= 0 {
		return fmt.Errorf("MONITOR_SAMPLE_SIZE must be positive")
	}
	if c.Monitor.WindowCapacity <= 0 {
		return fmt.Errorf("MONITOR_WINDOW_CAPACITY must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

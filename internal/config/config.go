package config

import (
	"os"
	"strconv"
	"strings"

	"hypotest/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Paths   PathConfig
	Runner  RunnerConfig
	Logging LoggingConfig
	Output  OutputConfig
}

// PathConfig holds file system paths
type PathConfig struct {
	DataFile string
	PlanFile string
}

// RunnerConfig holds batch execution settings
type RunnerConfig struct {
	Workers int
}

// LoggingConfig holds log level and handler format
type LoggingConfig struct {
	Level  string
	Format string
}

// OutputConfig holds report rendering settings
type OutputConfig struct {
	Format  string
	NoColor bool
}

var (
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"text", "json"}
	reportFormats = []string{"text", "markdown", "html", "json"}
)

// Load reads configuration from a .env file (when present) and environment
// variables, then validates it
func Load() (*Config, error) {
	// A missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only
func FromEnv() (*Config, error) {
	config := &Config{
		Paths: PathConfig{
			DataFile: getEnvOrDefault("HYPOTEST_DATA_FILE", ""),
			PlanFile: getEnvOrDefault("HYPOTEST_PLAN_FILE", ""),
		},
		Runner: RunnerConfig{
			Workers: getEnvIntOrDefault("HYPOTEST_WORKERS", 1),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnvOrDefault("HYPOTEST_LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnvOrDefault("HYPOTEST_LOG_FORMAT", "text")),
		},
		Output: OutputConfig{
			Format:  strings.ToLower(getEnvOrDefault("HYPOTEST_FORMAT", "text")),
			NoColor: os.Getenv("NO_COLOR") != "",
		},
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks enumerated settings and limits
func (c *Config) Validate() error {
	if c.Runner.Workers < 1 {
		return errors.ConfigInvalid("workers must be at least 1")
	}
	if !contains(logLevels, c.Logging.Level) {
		return errors.ConfigInvalid("unknown log level " + strconv.Quote(c.Logging.Level))
	}
	if !contains(logFormats, c.Logging.Format) {
		return errors.ConfigInvalid("unknown log format " + strconv.Quote(c.Logging.Format))
	}
	if !contains(reportFormats, c.Output.Format) {
		return errors.ConfigInvalid("unknown report format " + strconv.Quote(c.Output.Format))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

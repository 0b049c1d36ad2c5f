package config

import (
	"testing"

	"hypotest/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HYPOTEST_DATA_FILE", "HYPOTEST_PLAN_FILE", "HYPOTEST_WORKERS",
		"HYPOTEST_LOG_LEVEL", "HYPOTEST_LOG_FORMAT", "HYPOTEST_FORMAT", "NO_COLOR",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Runner.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.False(t, cfg.Output.NoColor)
	assert.Empty(t, cfg.Paths.DataFile)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HYPOTEST_DATA_FILE", "data/marketing_sales_data.csv")
	t.Setenv("HYPOTEST_WORKERS", "4")
	t.Setenv("HYPOTEST_LOG_LEVEL", "DEBUG")
	t.Setenv("HYPOTEST_FORMAT", "markdown")
	t.Setenv("NO_COLOR", "1")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "data/marketing_sales_data.csv", cfg.Paths.DataFile)
	assert.Equal(t, 4, cfg.Runner.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.True(t, cfg.Output.NoColor)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"zero workers", "HYPOTEST_WORKERS", "0"},
		{"log level", "HYPOTEST_LOG_LEVEL", "verbose"},
		{"log format", "HYPOTEST_LOG_FORMAT", "xml"},
		{"report format", "HYPOTEST_FORMAT", "pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.ErrorIs(t, err, errors.ErrConfigInvalid)
		})
	}
}

func TestUnparsableWorkersFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HYPOTEST_WORKERS", "many")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Runner.Workers)
}

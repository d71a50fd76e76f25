package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
environment = "development"
log_level = "debug"
storage_backend = "xlsx"
xlsx_path = "./dev-workouts.xlsx"
port = 9000

[production]
environment = "production"
log_level = "info"
logs_path = "/var/log/training-tracker/tracker"
storage_backend = "sheets"
worksheet = "Training"
timezone = "UTC"
heatmap_days = 365
host = "0.0.0.0"
port = 8080
prometheus_metrics_port = "9100"
daily_job_at = "06:30"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_Sections(t *testing.T) {
	path := writeConfig(t, testToml)

	devCfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, "debug", devCfg.LogLevel)
	assert.Equal(t, "xlsx", devCfg.StorageBackend)
	assert.Equal(t, 9000, devCfg.Port)
	// not set in the file, taken from defaults
	assert.Equal(t, 180, devCfg.HeatmapDays)
	assert.Equal(t, "07:00", devCfg.DailyJobAt)
	assert.Equal(t, "2112", devCfg.PrometheusMetricsPort)

	prodCfg, err := Load("prod", path)
	require.NoError(t, err)
	assert.Equal(t, "production", prodCfg.Environment)
	assert.Equal(t, "Training", prodCfg.Worksheet)
	assert.Equal(t, 365, prodCfg.HeatmapDays)
	assert.Equal(t, "06:30", prodCfg.DailyJobAt)
	assert.Equal(t, "9100", prodCfg.PrometheusMetricsPort)
}

func TestLoad_UnknownEnv(t *testing.T) {
	_, err := Load("staging", writeConfig(t, testToml))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRAINING_TRACKER_STORAGE_BACKEND", "memory")
	t.Setenv("TRAINING_TRACKER_HEATMAP_DAYS", "30")
	t.Setenv("TRAINING_TRACKER_PORT", "9999")
	t.Setenv("TRAINING_TRACKER_TIMEZONE", "UTC")
	t.Setenv("HONEYCOMB_ENABLED", "true")

	cfg, err := Load("production", writeConfig(t, testToml))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, 30, cfg.HeatmapDays)
	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.HoneycombTracingEnabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_Validation(t *testing.T) {
	testCases := map[string]string{
		"TRAINING_TRACKER_STORAGE_BACKEND": "postgres",
		"TRAINING_TRACKER_HEATMAP_DAYS":    "-1",
		"TRAINING_TRACKER_PORT":            "70000",
		"TRAINING_TRACKER_TIMEZONE":        "Mars/Olympus_Mons",
	}

	for key, value := range testCases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load("development", filepath.Join(t.TempDir(), "missing.toml"))
			assert.Error(t, err)
		})
	}
}

func TestLocation_Local(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

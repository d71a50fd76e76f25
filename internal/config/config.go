package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const envPrefix = "TRAINING_TRACKER_"

type Config struct {
	Environment string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage
	StorageBackend  string `toml:"storage_backend"`
	Worksheet       string `toml:"worksheet"`
	XLSXPath        string `toml:"xlsx_path"`
	SecretsEnvFile  string `toml:"secrets_env_file"`
	CredentialsPath string `toml:"credentials_path"`
	// training
	Timezone     string `toml:"timezone"`
	HeatmapDays  int    `toml:"heatmap_days"`
	DefaultLevel string `toml:"default_level"`
	// serve
	Host                    string `toml:"host"`
	Port                    int    `toml:"port"`
	PrometheusMetricsHost   string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort   string `toml:"prometheus_metrics_port"`
	DailyJobAt              string `toml:"daily_job_at"`
	HoneycombTracingEnabled bool   `toml:"honeycomb_tracing_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Default() *Config {
	return &Config{
		Environment:           "development",
		LogLevel:              "info",
		LogToStdout:           true,
		StorageBackend:        "sheets",
		XLSXPath:              "./workouts.xlsx",
		SecretsEnvFile:        ".env",
		Timezone:              "Local",
		HeatmapDays:           180,
		DefaultLevel:          "6-10",
		Host:                  "localhost",
		Port:                  8080,
		PrometheusMetricsHost: "localhost",
		PrometheusMetricsPort: "2112",
		DailyJobAt:            "07:00",
	}
}

// Load reads the config section for env from the TOML file at path, then applies
// environment variable overrides (prefix TRAINING_TRACKER_). A missing file means defaults.
func Load(env, path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		var tomlConfig Toml
		if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
		envCfg, err := tomlConfig.Get(env)
		if err != nil {
			return nil, err
		}
		if envCfg == nil {
			return nil, fmt.Errorf("config for env [%s] not found in %s", env, path)
		}
		cfg = mergeWithDefaults(envCfg)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config file: %w", err)
	}

	if cfg.Environment == "" {
		cfg.Environment = env
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Location returns the time zone in which "today" is determined.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func mergeWithDefaults(cfg *Config) *Config {
	d := Default()
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = d.StorageBackend
	}
	if cfg.XLSXPath == "" {
		cfg.XLSXPath = d.XLSXPath
	}
	if cfg.Timezone == "" {
		cfg.Timezone = d.Timezone
	}
	if cfg.HeatmapDays == 0 {
		cfg.HeatmapDays = d.HeatmapDays
	}
	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = d.DefaultLevel
	}
	if cfg.Host == "" {
		cfg.Host = d.Host
	}
	if cfg.Port == 0 {
		cfg.Port = d.Port
	}
	if cfg.PrometheusMetricsHost == "" {
		cfg.PrometheusMetricsHost = d.PrometheusMetricsHost
	}
	if cfg.PrometheusMetricsPort == "" {
		cfg.PrometheusMetricsPort = d.PrometheusMetricsPort
	}
	if cfg.DailyJobAt == "" {
		cfg.DailyJobAt = d.DailyJobAt
	}
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "LOGS_PATH"); v != "" {
		cfg.LogsPath = v
	}
	if v := os.Getenv(envPrefix + "STORAGE_BACKEND"); v != "" {
		cfg.StorageBackend = v
	}
	if v := os.Getenv(envPrefix + "WORKSHEET"); v != "" {
		cfg.Worksheet = v
	}
	if v := os.Getenv(envPrefix + "XLSX_PATH"); v != "" {
		cfg.XLSXPath = v
	}
	if v := os.Getenv(envPrefix + "TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv(envPrefix + "HEATMAP_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.HeatmapDays = days
		}
	}
	if v := os.Getenv(envPrefix + "PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv(envPrefix + "SENTRY_ENABLED"); v != "" {
		cfg.SentryEnabled = v == "true"
	}
	if v := os.Getenv("HONEYCOMB_ENABLED"); v != "" {
		cfg.HoneycombTracingEnabled = v == "true"
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.StorageBackend) {
	case "sheets", "xlsx", "memory":
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}
	if strings.EqualFold(c.StorageBackend, "xlsx") && c.XLSXPath == "" {
		return errors.New("xlsx_path is required for the xlsx storage backend")
	}
	if c.HeatmapDays <= 0 {
		return fmt.Errorf("heatmap_days must be positive, got %d", c.HeatmapDays)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := time.Parse("15:04", c.DailyJobAt); err != nil {
		return fmt.Errorf("invalid daily_job_at [%s]: %w", c.DailyJobAt, err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone [%s]: %w", c.Timezone, err)
	}
	return nil
}

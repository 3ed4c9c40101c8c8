package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"lottolab/internal/errors"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Refresh  RefreshConfig  `yaml:"refresh"`
}

// DatabaseConfig holds database connection settings. URL is either a
// postgres:// URL or a SQLite file path.
type DatabaseConfig struct {
	URL         string `yaml:"url"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string  `yaml:"port"`
	APIPort      string  `yaml:"api_port"`
	GinMode      string  `yaml:"gin_mode"`
	RateLimitRPS float64 `yaml:"rate_limit_rps"`
	RateBurst    int     `yaml:"rate_burst"`
}

// DataConfig holds the draw history file settings
type DataConfig struct {
	HistoryFile string `yaml:"history_file"`
}

// AnalysisConfig holds defaults for the fairness and statistics views
type AnalysisConfig struct {
	FDRLevel      float64 `yaml:"fdr_level"`
	IncludeBonus  bool    `yaml:"include_bonus"`
	RollingWindow int     `yaml:"rolling_window"`
	Lookback      int     `yaml:"lookback"`
	Seed          int64   `yaml:"seed"`
	TopPairs      int     `yaml:"top_pairs"`
}

// RefreshConfig controls background re-imports
type RefreshConfig struct {
	Schedule string        `yaml:"schedule"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{URL: "data/lottolab.db", AutoMigrate: true},
		Server: ServerConfig{
			Port:         "8080",
			APIPort:      "8081",
			GinMode:      "release",
			RateLimitRPS: 10,
			RateBurst:    20,
		},
		Data: DataConfig{HistoryFile: "data/lotto.csv"},
		Analysis: AnalysisConfig{
			FDRLevel:      0.05,
			IncludeBonus:  false,
			RollingWindow: 100,
			Lookback:      200,
			Seed:          42,
			TopPairs:      10,
		},
		Refresh: RefreshConfig{Schedule: "", Watch: false, Debounce: 500 * time.Millisecond},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by LOTTOLAB_CONFIG, and environment variables, in that order of precedence
func Load() (*Config, error) {
	return LoadFile(os.Getenv("LOTTOLAB_CONFIG"))
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("parse config yaml: %w", err))
		}
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func applyEnv(c *Config) {
	c.Database.URL = getEnvOrDefault("DATABASE_URL", c.Database.URL)
	c.Database.AutoMigrate = getEnvBoolOrDefault("AUTO_MIGRATE", c.Database.AutoMigrate)

	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.APIPort = getEnvOrDefault("API_PORT", c.Server.APIPort)
	c.Server.GinMode = getEnvOrDefault("GIN_MODE", c.Server.GinMode)
	c.Server.RateLimitRPS = getEnvFloatOrDefault("RATE_LIMIT_RPS", c.Server.RateLimitRPS)
	c.Server.RateBurst = getEnvIntOrDefault("RATE_LIMIT_BURST", c.Server.RateBurst)

	c.Data.HistoryFile = getEnvOrDefault("HISTORY_FILE", c.Data.HistoryFile)

	c.Analysis.FDRLevel = getEnvFloatOrDefault("FDR_LEVEL", c.Analysis.FDRLevel)
	c.Analysis.IncludeBonus = getEnvBoolOrDefault("INCLUDE_BONUS", c.Analysis.IncludeBonus)
	c.Analysis.RollingWindow = getEnvIntOrDefault("ROLLING_WINDOW", c.Analysis.RollingWindow)
	c.Analysis.Lookback = getEnvIntOrDefault("LOOKBACK", c.Analysis.Lookback)
	c.Analysis.Seed = int64(getEnvIntOrDefault("SEED", int(c.Analysis.Seed)))
	c.Analysis.TopPairs = getEnvIntOrDefault("TOP_PAIRS", c.Analysis.TopPairs)

	c.Refresh.Schedule = getEnvOrDefault("REFRESH_SCHEDULE", c.Refresh.Schedule)
	c.Refresh.Watch = getEnvBoolOrDefault("REFRESH_WATCH", c.Refresh.Watch)
	c.Refresh.Debounce = getEnvDurationOrDefault("REFRESH_DEBOUNCE", c.Refresh.Debounce)
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if q := config.Analysis.FDRLevel; !(q > 0 && q <= 1) {
		return errors.ConfigInvalid(fmt.Sprintf("fdr_level must be in (0, 1], got %v", q))
	}
	if config.Analysis.RollingWindow <= 0 {
		return errors.ConfigInvalid("rolling_window must be positive")
	}
	if config.Analysis.Lookback <= 0 {
		return errors.ConfigInvalid("lookback must be positive")
	}
	if config.Server.RateLimitRPS <= 0 || config.Server.RateBurst <= 0 {
		return errors.ConfigInvalid("rate limit must be positive")
	}
	if s := config.Refresh.Schedule; s != "" {
		if _, err := cron.ParseStandard(s); err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("invalid refresh schedule %q: %v", s, err))
		}
	}
	return nil
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete movewise configuration
type Config struct {
	Move    MoveConfig    `mapstructure:"move"`
	Oracle  OracleConfig  `mapstructure:"oracle"`
	Session SessionConfig `mapstructure:"session"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// MoveConfig holds defaults applied when a plan request omits a value
type MoveConfig struct {
	// DefaultBudget is the budget assumed when none is provided (USD)
	DefaultBudget float64 `mapstructure:"default_budget"`
	// DefaultPriority is the planning priority hint (default: "minimize cost")
	DefaultPriority string `mapstructure:"default_priority"`
	// DefaultMoveDate is the move date assumed when none is provided (YYYY-MM-DD)
	DefaultMoveDate string `mapstructure:"default_move_date"`
}

// OracleConfig controls the pricing oracle boundary
type OracleConfig struct {
	// BaseURL is the generation API base URL
	BaseURL string `mapstructure:"base_url"`
	// Model is the model name sent with generation requests
	Model string `mapstructure:"model"`
	// TimeoutSeconds bounds each oracle round trip; on expiry the estimator
	// falls back to its deterministic heuristics
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// Temperature is the sampling temperature for generation requests
	Temperature float64 `mapstructure:"temperature"`
}

// SessionConfig controls session persistence
type SessionConfig struct {
	// Store selects the persistence backend: "file" or "sqlite"
	Store string `mapstructure:"store"`
	// Dir is the base directory for file-backed session storage
	Dir string `mapstructure:"dir"`
	// SQLitePath is the database path for sqlite-backed session storage
	SQLitePath string `mapstructure:"sqlite_path"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Enabled turns file logging on or off
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Dir is the log directory; empty means stderr
	Dir string `mapstructure:"dir"`
}

// Timeout returns the oracle timeout as a time.Duration
func (c *OracleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		Move: MoveConfig{
			DefaultBudget:   3000,
			DefaultPriority: "minimize cost",
			DefaultMoveDate: "2025-12-01",
		},
		Oracle: OracleConfig{
			BaseURL:        "http://127.0.0.1:11434",
			Model:          "qwen2.5:7b",
			TimeoutSeconds: 30,
			Temperature:    0.7,
		},
		Session: SessionConfig{
			Store:      "file",
			Dir:        filepath.Join(DataDir(), "sessions"),
			SQLitePath: filepath.Join(DataDir(), "sessions.db"),
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     filepath.Join(DataDir(), "logs"),
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("move.default_budget", defaults.Move.DefaultBudget)
	viper.SetDefault("move.default_priority", defaults.Move.DefaultPriority)
	viper.SetDefault("move.default_move_date", defaults.Move.DefaultMoveDate)

	viper.SetDefault("oracle.base_url", defaults.Oracle.BaseURL)
	viper.SetDefault("oracle.model", defaults.Oracle.Model)
	viper.SetDefault("oracle.timeout_seconds", defaults.Oracle.TimeoutSeconds)
	viper.SetDefault("oracle.temperature", defaults.Oracle.Temperature)

	viper.SetDefault("session.store", defaults.Session.Store)
	viper.SetDefault("session.dir", defaults.Session.Dir)
	viper.SetDefault("session.sqlite_path", defaults.Session.SQLitePath)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the directory searched for config files
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "movewise")
}

// DataDir returns the directory used for sessions and logs
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "movewise")
}

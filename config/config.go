// Package config holds the tlog configuration: an optional YAML file, a .env
// file and TLOG_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = ".tlog.yaml"

// Config is the complete tlog configuration.
type Config struct {
	Transactions    string    `yaml:"transactions"`     // JSONL transactions file
	Database        string    `yaml:"database"`         // SQLite database, used instead of Transactions when set
	OpeningBalances string    `yaml:"opening_balances"` // JSONL opening balances file
	RollWindow      string    `yaml:"roll_window"`      // e.g. "10h"
	Log             LogConfig `yaml:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Transactions: "transactions.jsonl",
		RollWindow:   "10h",
		Log:          LogConfig{Level: "info"},
	}
}

// Load reads the configuration file at path, if it exists, then applies the
// environment overrides.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %q: %w", path, err)
			}
		}
	}

	cfg.Transactions = getEnv("TLOG_LEDGER", cfg.Transactions)
	cfg.Database = getEnv("TLOG_DB", cfg.Database)
	cfg.OpeningBalances = getEnv("TLOG_OPENING", cfg.OpeningBalances)
	cfg.RollWindow = getEnv("TLOG_ROLL_WINDOW", cfg.RollWindow)
	cfg.Log.Level = getEnv("TLOG_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = getEnvAsBool("TLOG_LOG_PRETTY", cfg.Log.Pretty)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values can be used.
func (c *Config) Validate() error {
	if c.Transactions == "" && c.Database == "" {
		return errors.New("transactions or database is required")
	}
	if _, err := c.Window(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Window returns the roll window duration.
func (c *Config) Window() (time.Duration, error) {
	d, err := time.ParseDuration(c.RollWindow)
	if err != nil {
		return 0, fmt.Errorf("roll_window: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("roll_window: must not be negative, got %s", d)
	}
	return d, nil
}

// Logger creates the logger described by the configuration, writing to w.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Log.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

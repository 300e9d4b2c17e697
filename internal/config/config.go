// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/minglog/minglog/internal/store"
)

// Environment variables read by Load.
const (
	EnvDataDir          = "MINGLOG_DATA_DIR"
	EnvLogLevel         = "MINGLOG_LOG_LEVEL"
	EnvDefaultLimit     = "MINGLOG_DEFAULT_LIMIT"
	EnvMaxListLimit     = "MINGLOG_MAX_LIST_LIMIT"
	EnvMaxSearchResults = "MINGLOG_MAX_SEARCH_RESULTS"
)

// AppName names the data directory under the XDG data home.
const AppName = "minglog"

// Config holds all runtime configuration.
type Config struct {
	DataDir          string
	LogLevel         slog.Level
	DefaultListLimit int
	MaxListLimit     int
	MaxSearchResults int
}

// Load reads .env from the working directory when present, then the
// environment, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	defaults := store.DefaultConfig()
	level, err := parseLevel(os.Getenv(EnvLogLevel))
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		DataDir:  getEnv(EnvDataDir, DefaultDataDir()),
		LogLevel: level,
	}
	for _, f := range []struct {
		key  string
		dst  *int
		dflt int
	}{
		{EnvDefaultLimit, &cfg.DefaultListLimit, defaults.DefaultListLimit},
		{EnvMaxListLimit, &cfg.MaxListLimit, defaults.MaxListLimit},
		{EnvMaxSearchResults, &cfg.MaxSearchResults, defaults.MaxSearchResults},
	} {
		if *f.dst, err = getEnvInt(f.key, f.dflt); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// Validate checks that limits are positive and consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%s must not be empty", EnvDataDir)
	}
	if c.DefaultListLimit < 1 {
		return fmt.Errorf("%s must be positive, got %d", EnvDefaultLimit, c.DefaultListLimit)
	}
	if c.MaxListLimit < c.DefaultListLimit {
		return fmt.Errorf("%s (%d) must not be below %s (%d)",
			EnvMaxListLimit, c.MaxListLimit, EnvDefaultLimit, c.DefaultListLimit)
	}
	if c.MaxSearchResults < 1 {
		return fmt.Errorf("%s must be positive, got %d", EnvMaxSearchResults, c.MaxSearchResults)
	}
	return nil
}

// Store returns the store configuration derived from c.
func (c *Config) Store() store.Config {
	return store.Config{
		DataDir:          c.DataDir,
		DefaultListLimit: c.DefaultListLimit,
		MaxListLimit:     c.MaxListLimit,
		MaxSearchResults: c.MaxSearchResults,
	}
}

// DefaultDataDir is $XDG_DATA_HOME/minglog.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, AppName)
}

func parseLevel(v string) (slog.Level, error) {
	var level slog.Level
	if v == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	return level, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return i, nil
}

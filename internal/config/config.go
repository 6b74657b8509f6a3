// Package config loads the roguestats YAML configuration and applies
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/roguestats/internal/cache"
	"github.com/lawnchairsociety/roguestats/internal/history"
	"github.com/lawnchairsociety/roguestats/internal/logger"
	"github.com/lawnchairsociety/roguestats/internal/report"
	"github.com/lawnchairsociety/roguestats/internal/stats"
)

// AppName namespaces the cache directory and cache file names.
const AppName = "roguestats"

// Config holds every configurable setting of roguestats.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Weights stats.Weights `yaml:"weights"`
	Output  OutputConfig  `yaml:"output"`
	History HistoryConfig `yaml:"history"`
	Serve   ServeConfig   `yaml:"serve"`
	Logging logger.Config `yaml:"logging"`
}

// CacheConfig holds the parsed-log cache settings.
type CacheConfig struct {
	// Dir is the per-user cache root. Entries live in Dir/AppName.
	Dir string `yaml:"dir"`

	AppName string `yaml:"app_name"`

	// Disabled skips both lookups and writes.
	Disabled bool `yaml:"disabled"`

	// MemoryEntries sizes the in-process LRU. 0 disables it.
	MemoryEntries int `yaml:"memory_entries"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	// Format is text, json or yaml.
	Format string `yaml:"format"`

	// Precision is the number of decimals in text output.
	Precision int `yaml:"precision"`

	// BlankZeros prints zero percentages as blanks in text output.
	BlankZeros bool `yaml:"blank_zeros"`

	// Legend appends the monster names to text output.
	Legend bool `yaml:"legend"`
}

// HistoryConfig holds the run history database settings.
type HistoryConfig struct {
	Enabled        bool `yaml:"enabled"`
	history.Config `yaml:",inline"`
}

// ServeConfig holds the live report server settings.
type ServeConfig struct {
	// Address is the host:port the HTTP server listens on.
	Address string `yaml:"address"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxClients is the maximum number of concurrent WebSocket clients.
	// 0 means unlimited.
	MaxClients int `yaml:"max_clients"`

	// MaxPerIP is the maximum number of concurrent WebSocket clients from a
	// single IP address. 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// DebounceMS is how long file events are coalesced before recomputing.
	DebounceMS int `yaml:"debounce_ms"`
}

// DefaultConfig returns a Config with defaults for a single user.
func DefaultConfig() *Config {
	cacheDir := defaultCacheDir()
	return &Config{
		Cache: CacheConfig{
			Dir:           cacheDir,
			AppName:       AppName,
			MemoryEntries: 16,
		},
		Weights: stats.DefaultWeights(),
		Output: OutputConfig{
			Format:     string(report.FormatText),
			Precision:  1,
			BlankZeros: true,
			Legend:     true,
		},
		History: HistoryConfig{
			Enabled: false,
			Config:  history.DefaultConfig(filepath.Join(cacheDir, AppName, "history.db")),
		},
		Serve: ServeConfig{
			Address:        "localhost:8765",
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxClients:     16,
			MaxPerIP:       4,
			DebounceMS:     200,
		},
		Logging: logger.DefaultConfig(),
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return filepath.Join(os.TempDir(), "cache")
}

// LoadConfig loads configuration from a YAML file and applies environment
// overrides. If the file doesn't exist, the defaults are used. If it can't
// be parsed, the defaults are returned together with the error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			config.ApplyEnv()
			return config, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				config = DefaultConfig()
				config.ApplyEnv()
				return config, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	config.ApplyEnv()
	return config, config.Validate()
}

// LoadDotEnv loads KEY=value pairs from a .env file into the environment.
// A missing file is not an error. Variables already set are kept.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values from ROGUESTATS_* and LOG_* variables.
func (c *Config) ApplyEnv() {
	if dir := os.Getenv("ROGUESTATS_CACHE_DIR"); dir != "" {
		c.Cache.Dir = dir
	}

	if dsn := os.Getenv("ROGUESTATS_HISTORY_DSN"); dsn != "" {
		c.History.Enabled = true
		c.History.Driver = string(history.DialectPostgres)
		c.History.Postgres.DSN = dsn
	}

	c.Logging.ApplyEnv()
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if c.Output.Precision < 0 || c.Output.Precision > 6 {
		return fmt.Errorf("output precision must be between 0 and 6, got %d", c.Output.Precision)
	}
	if c.Serve.MaxClients < 0 || c.Serve.MaxPerIP < 0 {
		return fmt.Errorf("serve client limits must not be negative")
	}
	if c.Serve.DebounceMS < 0 {
		return fmt.Errorf("serve debounce_ms must not be negative")
	}
	if c.History.Enabled {
		switch history.DialectType(strings.ToLower(c.History.Driver)) {
		case history.DialectSQLite, history.DialectPostgres, "":
		default:
			return fmt.Errorf("unsupported history driver %q", c.History.Driver)
		}
	}
	return nil
}

// StoreConfig returns the cache store settings.
func (c CacheConfig) StoreConfig() cache.Config {
	app := c.AppName
	if app == "" {
		app = AppName
	}
	return cache.Config{Dir: c.Dir, AppName: app, MemoryEntries: c.MemoryEntries}
}

// TextOptions returns the text renderer settings.
func (c OutputConfig) TextOptions() report.TextOptions {
	return report.TextOptions{Precision: c.Precision, BlankZeros: c.BlankZeros, Legend: c.Legend}
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *ServeConfig) IsOriginAllowed(origin, requestHost string) bool {
	// If no origins configured, enforce same-origin policy
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// Extract host from origin URL (e.g., "http://localhost:3000" -> "localhost:3000")
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}

// Package config loads and validates linkden configuration.
//
// Resolution order: built-in defaults, then config.yaml in the data
// directory, then LINKDEN_* environment variables (highest priority).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	lderr "github.com/linkden/linkden/internal/errors"
)

// ConfigFileName is the name of the config file inside the data directory.
const ConfigFileName = "config.yaml"

// Config represents the complete linkden configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" json:"paths"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PathsConfig configures on-disk locations.
type PathsConfig struct {
	// DataDir holds the database and log files. Default: ~/.linkden
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// SearchConfig carries the tunable thresholds of the search pipeline.
// These are configuration, not literals, so boundary values can be
// exercised directly in tests.
type SearchConfig struct {
	// DefaultLimit is the page size used when the caller passes none (default: 20).
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`

	// MaxLimit is the maximum allowed page size (default: 100).
	MaxLimit int `yaml:"max_limit" json:"max_limit"`

	// SparsityThreshold triggers did-you-mean fallback when a first-page
	// search returns fewer than this many total matches (default: 5).
	SparsityThreshold int `yaml:"sparsity_threshold" json:"sparsity_threshold"`

	// SnippetLength is the description excerpt window in characters (default: 200).
	SnippetLength int `yaml:"snippet_length" json:"snippet_length"`

	// MaxEditDistance is the Levenshtein cutoff for fuzzy fallback terms (default: 2).
	MaxEditDistance int `yaml:"max_edit_distance" json:"max_edit_distance"`

	// SuggestLimit is the default suggestion count (default: 10).
	SuggestLimit int `yaml:"suggest_limit" json:"suggest_limit"`

	// SuggestCacheSize is the LRU capacity for suggestion responses (default: 256).
	SuggestCacheSize int `yaml:"suggest_cache_size" json:"suggest_cache_size"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// File enables logging to <data_dir>/linkden.log when true.
	File bool `yaml:"file" json:"file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		Paths: PathsConfig{
			DataDir: filepath.Join(home, ".linkden"),
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8372,
		},
		Search: SearchConfig{
			DefaultLimit:      20,
			MaxLimit:          100,
			SparsityThreshold: 5,
			SnippetLength:     200,
			MaxEditDistance:   2,
			SuggestLimit:      10,
			SuggestCacheSize:  256,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from dataDir/config.yaml, falling back to
// defaults when the file is absent, then applies environment overrides.
// If dataDir is empty the default data directory is used.
func Load(dataDir string) (*Config, error) {
	cfg := New()
	if dataDir != "" {
		cfg.Paths.DataDir = dataDir
	}

	path := filepath.Join(cfg.Paths.DataDir, ConfigFileName)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults apply
	case err != nil:
		return nil, lderr.Wrap(lderr.ErrCodeConfigNotFound, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, lderr.New(lderr.ErrCodeConfigInvalid,
				fmt.Sprintf("parse %s: %v", path, err), err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to dataDir/config.yaml.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.Paths.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(filepath.Join(c.Paths.DataDir, ConfigFileName), data, 0o644)
}

// DatabasePath returns the path to the SQLite database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "linkden.db")
}

// LogPath returns the path to the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.DataDir, "linkden.log")
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return lderr.Validationf(lderr.ErrCodeConfigInvalid,
			"server.port %d out of range 1-65535", c.Server.Port)
	}
	if c.Search.DefaultLimit < 1 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return lderr.Validationf(lderr.ErrCodeConfigInvalid,
			"search.default_limit %d must be in 1-%d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Search.MaxLimit < 1 {
		return lderr.Validationf(lderr.ErrCodeConfigInvalid,
			"search.max_limit must be positive")
	}
	if c.Search.SparsityThreshold < 0 {
		return lderr.Validationf(lderr.ErrCodeConfigInvalid,
			"search.sparsity_threshold must be non-negative")
	}
	if c.Search.SnippetLength < 20 {
		return lderr.Validationf(lderr.ErrCodeConfigInvalid,
			"search.snippet_length %d too small, minimum 20", c.Search.SnippetLength)
	}
	if c.Search.MaxEditDistance < 0 || c.Search.MaxEditDistance > 5 {
		return lderr.Validationf(lderr.ErrCodeConfigInvalid,
			"search.max_edit_distance %d out of range 0-5", c.Search.MaxEditDistance)
	}
	return nil
}

// applyEnv applies LINKDEN_* environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("LINKDEN_DATA_DIR"); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv("LINKDEN_HOST"); v != "" {
		c.Server.Host = v
	}
	if v, ok := envInt("LINKDEN_PORT"); ok {
		c.Server.Port = v
	}
	if v := os.Getenv("LINKDEN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v, ok := envInt("LINKDEN_SPARSITY_THRESHOLD"); ok {
		c.Search.SparsityThreshold = v
	}
	if v, ok := envInt("LINKDEN_SNIPPET_LENGTH"); ok {
		c.Search.SnippetLength = v
	}
	if v, ok := envInt("LINKDEN_MAX_EDIT_DISTANCE"); ok {
		c.Search.MaxEditDistance = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvLogLevel   = "SORTFIN_LOG_LEVEL"
	EnvFormat     = "SORTFIN_FORMAT"
	EnvAutoCommit = "SORTFIN_GIT_AUTO_COMMIT"
)

// Config represents the top-level sortfin.yaml configuration.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Display  DisplayConfig  `yaml:"display"`
	Log      LogConfig      `yaml:"log"`
	Git      GitConfig      `yaml:"git"`
}

// DefaultsConfig seeds new sessions.
type DefaultsConfig struct {
	Asset  string `yaml:"asset"`
	Symbol string `yaml:"symbol,omitempty"` // empty uses the currency's own symbol
	Format string `yaml:"format"`           // "yaml" or "msgpack"
	Chart  string `yaml:"chart"`            // "empty" or "personal"
}

// DisplayConfig controls how dates are parsed and printed.
type DisplayConfig struct {
	DateFormat string `yaml:"date_format"` // Go layout, e.g. "2006-01-02"
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a sortfin.yaml file from disk and applies environment overrides.
// A .env file next to the workspace directory is loaded first if present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	_ = godotenv.Load(filepath.Join(filepath.Dir(filepath.Dir(path)), ".env"))
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace. An
// empty asset selects USD.
func Default(asset string) *Config {
	if asset == "" {
		asset = "USD"
	}
	return &Config{
		Defaults: DefaultsConfig{
			Asset:  asset,
			Format: "yaml",
			Chart:  "empty",
		},
		Display: DisplayConfig{
			DateFormat: "2006-01-02",
		},
		Log: LogConfig{
			Level:  "warn",
			Pretty: true,
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "sortfin",
			AuthorEmail: "sortfin@localhost",
		},
	}
}

// ApplyEnv overrides fields from SORTFIN_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Defaults.Format = v
	}
	if v := os.Getenv(EnvAutoCommit); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvAutoCommit, err)
		}
		c.Git.AutoCommit = b
	}
	return nil
}

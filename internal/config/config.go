// Package config loads the docsite YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/content"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/nav"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "docsite.yaml"

// Config represents the application configuration.
type Config struct {
	Site       SiteConfig    `yaml:"site"`
	Content    ContentConfig `yaml:"content"`
	Render     RenderConfig  `yaml:"render"`
	Server     ServerConfig  `yaml:"server"`
	Watch      WatchConfig   `yaml:"watch"`
	Logging    LoggingConfig `yaml:"logging"`
	Metrics    MetricsConfig `yaml:"metrics"`
	History    HistoryConfig `yaml:"history"`
	Notify     NotifyConfig  `yaml:"notify"`
	Navigation []nav.Item    `yaml:"navigation"`
}

// SiteConfig holds presentation settings.
type SiteConfig struct {
	Title string `yaml:"title"`
}

// ContentConfig locates and interprets the documentation sources.
type ContentConfig struct {
	Root       string                  `yaml:"root"`
	Extensions []string                `yaml:"extensions,omitempty"`
	Collisions content.CollisionPolicy `yaml:"collisions,omitempty"` // first|reject
}

// RenderConfig controls Markdown rendering.
type RenderConfig struct {
	AllowRawHTML bool `yaml:"allow_raw_html"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout    time.Duration `yaml:"write_timeout,omitempty"`
	IdleTimeout     time.Duration `yaml:"idle_timeout,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
}

// WatchConfig controls automatic rebuilds.
type WatchConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Debounce       time.Duration `yaml:"debounce,omitempty"`
	RescanInterval time.Duration `yaml:"rescan_interval,omitempty"` // zero disables
}

// LoggingConfig selects the log level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig exposes Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// HistoryConfig enables the reload history database. An empty path disables it.
type HistoryConfig struct {
	Path  string `yaml:"path,omitempty"`
	Limit int    `yaml:"limit,omitempty"` // entries returned by /api/reloads
}

// NotifyConfig enables NATS index events. An empty URL disables them.
type NotifyConfig struct {
	NATSURL string        `yaml:"nats_url,omitempty"`
	Subject string        `yaml:"subject,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads, defaults and validates the configuration at path.
// An empty path uses DefaultPath when present and built-in defaults otherwise.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", logfields.Error(err))
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return Default(), nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, derrors.ConfigError(fmt.Sprintf("configuration file not found: %s", path)).
			WithContext("path", path).Build()
	case err != nil:
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded configuration", logfields.Path(path))
	return cfg, nil
}

// Parse decodes YAML with environment variables expanded, then applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to unmarshal config").Build()
	}
	applyDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil && !force {
		return derrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("path", path).Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).Build()
	}
	return nil
}

// Example is the configuration written by Init.
func Example() *Config {
	cfg := Default()
	cfg.Site.Title = "My Documentation"
	cfg.Watch.Enabled = true
	cfg.Metrics.Enabled = true
	cfg.Navigation = []nav.Item{
		{Title: "Intro", URL: "/docs"},
		{Title: "Config", URL: "/docs/config"},
		{Title: "Providers", URL: "/docs/providers"},
		{Title: "Usage", Children: []nav.Item{{Title: "CLI", URL: "/docs/usage/cli"}}},
	}
	return cfg
}

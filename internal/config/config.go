// Package config provides configuration types and defaults for clientbook.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/clientbook/internal/log"
	"github.com/zjrosen/clientbook/internal/tracing"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds all configuration options for clientbook.
type Config struct {
	Storage     StorageConfig    `mapstructure:"storage"`
	AutoRefresh bool             `mapstructure:"auto_refresh"`
	UI          UIConfig         `mapstructure:"ui"`
	Validation  ValidationConfig `mapstructure:"validation"`
	Tracing     tracing.Config   `mapstructure:"tracing"`
}

// StorageConfig selects where the client collection lives.
type StorageConfig struct {
	Backend  string        `mapstructure:"backend"`   // "file" (default), "sqlite" or "memory"
	Dir      string        `mapstructure:"dir"`       // default ~/.clientbook
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 0 disables the read cache
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	NotificationTimeout time.Duration `mapstructure:"notification_timeout"`
	MarkdownStyle       string        `mapstructure:"markdown_style"` // "dark" (default) or "light"
	DateFormat          string        `mapstructure:"date_format"`    // Go reference layout
}

// ValidationConfig tunes form validation.
type ValidationConfig struct {
	// TrimRequired rejects whitespace-only values in required fields.
	TrimRequired bool `mapstructure:"trim_required"`
}

// DefaultDataDir returns ~/.clientbook, or .clientbook when the home
// directory is unavailable.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clientbook"
	}
	return filepath.Join(home, ".clientbook")
}

// DefaultTracesFilePath returns the trace export file inside the data dir.
func DefaultTracesFilePath(dataDir string) string {
	return filepath.Join(dataDir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{
			Backend:  BackendFile,
			CacheTTL: 30 * time.Second,
		},
		AutoRefresh: true,
		UI: UIConfig{
			NotificationTimeout: 5 * time.Second,
			MarkdownStyle:       "dark",
			DateFormat:          "02/01/2006",
		},
		Validation: ValidationConfig{
			TrimRequired: true,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// DataDir returns the configured storage directory or the default.
func (c Config) DataDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return DefaultDataDir()
}

// TracingConfig returns the tracing config with the file path filled in.
func (c Config) TracingConfig() tracing.Config {
	cfg := c.Tracing
	if cfg.FilePath == "" {
		cfg.FilePath = DefaultTracesFilePath(c.DataDir())
	}
	return cfg
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if err := ValidateStorage(c.Storage); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateStorage checks storage configuration for errors.
func ValidateStorage(s StorageConfig) error {
	switch s.Backend {
	case "", BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("storage.backend must be %q, %q, or %q, got %q", BackendFile, BackendSQLite, BackendMemory, s.Backend)
	}
	if s.CacheTTL < 0 {
		return fmt.Errorf("storage.cache_ttl must not be negative, got %s", s.CacheTTL)
	}
	return nil
}

// ValidateUI checks UI configuration for errors.
func ValidateUI(ui UIConfig) error {
	if ui.NotificationTimeout < 0 {
		return fmt.Errorf("ui.notification_timeout must not be negative, got %s", ui.NotificationTimeout)
	}
	switch ui.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	if t.Enabled && t.Exporter == "otlp" && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# clientbook configuration

storage:
  backend: file        # "file" (clients.json), "sqlite" (clientbook.db) or "memory"
  # dir: ~/.clientbook # Directory holding the client data
  cache_ttl: 30s       # How long reads are served from memory (0 disables)

# Reload the list when the data file changes on disk
auto_refresh: true

ui:
  notification_timeout: 5s  # How long success/error banners stay visible
  markdown_style: dark      # Detail panel style: "dark" or "light"
  date_format: "02/01/2006" # Go time layout for created/updated dates

validation:
  trim_required: true # Treat whitespace-only required fields as empty

tracing:
  enabled: false
  exporter: file      # "none", "file", "stdout" or "otlp"
  # file_path: ~/.clientbook/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

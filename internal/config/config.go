// pattern: Functional Core (defaults/parsing) + Imperative Shell (file access)

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"notebench/internal/canvas"
)

// Config is the application configuration, loaded from
// ~/.config/notebench/config.yaml (or XDG_CONFIG_HOME). Missing file means
// defaults; a malformed file is an error.
type Config struct {
	Theme       string          `yaml:"theme"`
	DefaultView string          `yaml:"default_view"`
	DataDir     string          `yaml:"data_dir"`
	LogLevel    string          `yaml:"log_level"`
	Web         WebConfig       `yaml:"web"`
	Backend     BackendConfig   `yaml:"backend"`
	Workspace   WorkspaceConfig `yaml:"workspace"`
}

// WebConfig configures the local observer server. Port 0 means an ephemeral
// port.
type WebConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// BackendConfig describes the research backend sidecar. An empty Command
// disables supervision entirely.
type BackendConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	BaseURL string   `yaml:"base_url"`
	Restart string   `yaml:"restart"` // "never", "on-failure", "always"
}

// WorkspaceConfig tunes workspace persistence.
type WorkspaceConfig struct {
	AutosaveDebounceMS int `yaml:"autosave_debounce_ms"`
}

func DefaultConfig() Config {
	return Config{
		Theme:       "mocha",
		DefaultView: string(canvas.ViewChat),
		LogLevel:    "info",
		Web: WebConfig{
			Bind: "127.0.0.1",
		},
		Backend: BackendConfig{
			BaseURL: "http://127.0.0.1:8000",
			Restart: "on-failure",
		},
		Workspace: WorkspaceConfig{
			AutosaveDebounceMS: 250,
		},
	}
}

// Load reads the config from the default location.
func Load() (Config, error) {
	return LoadFrom(filepath.Join(configDir(), "config.yaml"))
}

// LoadFromDir reads the config from an explicit directory.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

// LoadFrom reads and validates a config file. A missing file yields the
// defaults without error.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", configPath, err)
	}
	if cfg.Theme == "" {
		cfg.Theme = "mocha"
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate rejects values the rest of the application cannot act on.
func (c Config) Validate() error {
	if _, err := canvas.ParseViewKind(c.DefaultView); err != nil {
		return fmt.Errorf("default_view: %w", err)
	}
	switch c.Backend.Restart {
	case "", "never", "on-failure", "always":
	default:
		return fmt.Errorf("backend.restart: unknown policy %q", c.Backend.Restart)
	}
	if c.Workspace.AutosaveDebounceMS < 0 {
		return fmt.Errorf("workspace.autosave_debounce_ms must not be negative")
	}
	return nil
}

// ResolveDataDir returns the directory for mutable state (workspace layouts,
// logs, lock and port files), creating it if needed.
func (c Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dir = filepath.Join(xdg, "notebench")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve data dir: %w", err)
			}
			dir = filepath.Join(home, ".local", "share", "notebench")
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "notebench")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "notebench")
	}
	return filepath.Join(home, ".config", "notebench")
}

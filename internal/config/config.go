// Package config loads CLI settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvAPIBaseURL  = "TEAMJOIN_API_BASE_URL"
	EnvSessionPath = "TEAMJOIN_SESSION_PATH"
	EnvLogLevel    = "TEAMJOIN_LOG_LEVEL"
	EnvConfigPath  = "TEAMJOIN_CONFIG"
)

// Config is the CLI configuration.
type Config struct {
	// APIBaseURL serves both the REST API and the auth form endpoints.
	APIBaseURL     string        `yaml:"api_base_url"`
	SessionPath    string        `yaml:"session_path"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	ToastDuration  time.Duration `yaml:"toast_duration"`
	// AuthForms optionally replaces the built-in auth form definitions with
	// an OpenAPI document at a file path or URL.
	AuthForms string        `yaml:"auth_forms,omitempty"`
	Logging   LoggingConfig `yaml:"logging"`
}

// LoggingConfig selects the logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:     "http://localhost:8000",
		SessionPath:    filepath.Join(defaultDir(), "session.yaml"),
		RequestTimeout: 15 * time.Second,
		ToastDuration:  3 * time.Second,
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(defaultDir(), "config.yaml")
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".teamjoin"
	}
	return filepath.Join(dir, "teamjoin")
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		c.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSessionPath)); v != "" {
		c.SessionPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects settings the CLI cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("config: api_base_url is required")
	}
	if strings.TrimSpace(c.SessionPath) == "" {
		return errors.New("config: session_path is required")
	}
	if c.RequestTimeout < 0 || c.ToastDuration < 0 {
		return errors.New("config: durations must not be negative")
	}
	return nil
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

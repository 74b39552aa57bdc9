// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment the client talks to.
type Environment string

const (
	// Development targets a ticketing service on the local machine.
	Development Environment = "development"
	// Staging targets a pre-production ticketing service.
	Staging Environment = "staging"
	// Production targets the production ticketing service.
	Production Environment = "production"
)

// DefaultBaseURL is the ticketing service address used when neither the
// config file nor the environment names one.
const DefaultBaseURL = "http://localhost:8080"

// Config is the master configuration for the resolve client.
type Config struct {
	// Environment identifies which deployment the client targets.
	Environment Environment `yaml:"environment"`

	// API configures the ticketing service connection.
	API APIConfig `yaml:"api"`

	// Session configures where the login session is stored.
	Session SessionConfig `yaml:"session"`

	// Chat configures the chat widget.
	Chat ChatConfig `yaml:"chat"`

	// UI configures terminal rendering.
	UI UIConfig `yaml:"ui"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	API     *APIConfig     `yaml:"api,omitempty"`
	Session *SessionConfig `yaml:"session,omitempty"`
	Chat    *ChatConfig    `yaml:"chat,omitempty"`
}

// APIConfig configures the ticketing service connection.
type APIConfig struct {
	// BaseURL is the scheme and host of the ticketing service. Relative
	// request paths are resolved against it.
	// Default: http://localhost:8080
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each REST call.
	// Default: 30s
	Timeout string `yaml:"timeout"`

	// ChatTimeout bounds a chat exchange, which waits on a model reply.
	// Default: 60s
	ChatTimeout string `yaml:"chat_timeout"`
}

// SessionConfig configures session persistence.
type SessionConfig struct {
	// File is the path of the session file. Empty means the default
	// location under the user config directory.
	File string `yaml:"file"`
}

// ChatConfig configures the chat widget.
type ChatConfig struct {
	// HistoryDir holds one conversation file per user. Empty means a
	// "chat" directory next to the session file.
	HistoryDir string `yaml:"history_dir"`

	// DefaultUserID is sent as the chat user when nobody is logged in.
	// Default: 3
	DefaultUserID int64 `yaml:"default_user_id"`
}

// UIConfig configures terminal rendering.
type UIConfig struct {
	// Theme selects the color palette: "dark" or "plain".
	// Default: dark
	Theme string `yaml:"theme"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Environment: Development,
		API: APIConfig{
			BaseURL:     DefaultBaseURL,
			Timeout:     "30s",
			ChatTimeout: "60s",
		},
		Chat: ChatConfig{
			DefaultUserID: 3,
		},
		UI: UIConfig{
			Theme: "dark",
		},
	}
}

// Load builds the configuration from the environment. A .env file in
// the working directory is read first without overriding variables
// already set. If RESOLVE_CONFIG names a file it is loaded; otherwise
// the defaults are used. RESOLVE_API_URL (or VITE_API_URL) overrides
// the API base URL last.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("RESOLVE_CONFIG"))
}

// LoadFile is like [Load] but reads the config file at path. An empty
// path skips the file and uses the defaults.
func LoadFile(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	cfg.applyEnvironmentOverrides()
	cfg.applyEnvironmentVariables()
	cfg.expandVariables()

	return cfg, nil
}

// loadDotEnv reads KEY=VALUE pairs from path into the process
// environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the section matching c.Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.API != nil {
		if overrides.API.BaseURL != "" {
			c.API.BaseURL = overrides.API.BaseURL
		}
		if overrides.API.Timeout != "" {
			c.API.Timeout = overrides.API.Timeout
		}
		if overrides.API.ChatTimeout != "" {
			c.API.ChatTimeout = overrides.API.ChatTimeout
		}
	}

	if overrides.Session != nil && overrides.Session.File != "" {
		c.Session.File = overrides.Session.File
	}

	if overrides.Chat != nil {
		if overrides.Chat.HistoryDir != "" {
			c.Chat.HistoryDir = overrides.Chat.HistoryDir
		}
		if overrides.Chat.DefaultUserID != 0 {
			c.Chat.DefaultUserID = overrides.Chat.DefaultUserID
		}
	}
}

// applyEnvironmentVariables applies the variables that outrank the file.
// VITE_API_URL is honored so an existing web client .env keeps working.
func (c *Config) applyEnvironmentVariables() {
	for _, name := range []string{"VITE_API_URL", "RESOLVE_API_URL"} {
		if value := os.Getenv(name); value != "" {
			c.API.BaseURL = value
		}
	}
	if value := os.Getenv("RESOLVE_SESSION_FILE"); value != "" {
		c.Session.File = value
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.API.BaseURL = strings.TrimRight(expandVars(c.API.BaseURL, vars), "/")
	c.Session.File = expandVars(c.Session.File, vars)
	c.Chat.HistoryDir = expandVars(c.Chat.HistoryDir, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// RequestTimeout returns the parsed API timeout.
func (c *Config) RequestTimeout() time.Duration {
	return parseDurationOr(c.API.Timeout, 30*time.Second)
}

// ChatRequestTimeout returns the parsed chat timeout.
func (c *Config) ChatRequestTimeout() time.Duration {
	return parseDurationOr(c.API.ChatTimeout, 60*time.Second)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// SessionFilePath returns the configured session file, or
// $XDG_CONFIG_HOME/resolve/session.json (falling back to
// ~/.config/resolve/session.json).
func (c *Config) SessionFilePath() string {
	if c.Session.File != "" {
		return c.Session.File
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "resolve-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "resolve", "session.json")
}

// ChatHistoryDir returns the directory holding per-user chat history.
func (c *Config) ChatHistoryDir() string {
	if c.Chat.HistoryDir != "" {
		return c.Chat.HistoryDir
	}
	return filepath.Join(filepath.Dir(c.SessionFilePath()), "chat")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	} else if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("api.base_url must start with http:// or https://, got %q", c.API.BaseURL))
	}

	for name, value := range map[string]string{"api.timeout": c.API.Timeout, "api.chat_timeout": c.API.ChatTimeout} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if c.UI.Theme != "" && c.UI.Theme != "dark" && c.UI.Theme != "plain" {
		errs = append(errs, fmt.Errorf("ui.theme must be one of: [dark plain]"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

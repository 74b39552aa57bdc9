// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnvironment unsets every variable Load consults so the host
// environment cannot leak into a test.
func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, name := range []string{"RESOLVE_CONFIG", "RESOLVE_API_URL", "VITE_API_URL", "RESOLVE_SESSION_FILE"} {
		t.Setenv(name, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("expected base_url=http://localhost:8080, got %s", cfg.API.BaseURL)
	}
	if cfg.Chat.DefaultUserID != 3 {
		t.Errorf("expected default_user_id=3, got %d", cfg.Chat.DefaultUserID)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_WithoutConfigFileUsesDefaults(t *testing.T) {
	clearEnvironment(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("base_url = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout() = %v, want 30s", cfg.RequestTimeout())
	}
}

func TestLoadFile_EnvironmentOverrides(t *testing.T) {
	clearEnvironment(t)

	configPath := filepath.Join(t.TempDir(), "resolve.yaml")
	content := `
environment: production
api:
  base_url: http://localhost:9000
  timeout: 10s
production:
  api:
    base_url: https://tickets.example.com/
  chat:
    default_user_id: 42
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if cfg.Environment != Production {
		t.Errorf("environment = %s, want production", cfg.Environment)
	}
	if cfg.API.BaseURL != "https://tickets.example.com" {
		t.Errorf("base_url = %q, want override without trailing slash", cfg.API.BaseURL)
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Errorf("timeout = %v, want 10s from base section", cfg.RequestTimeout())
	}
	if cfg.Chat.DefaultUserID != 42 {
		t.Errorf("default_user_id = %d, want 42", cfg.Chat.DefaultUserID)
	}
}

func TestLoadFile_EnvironmentVariableWins(t *testing.T) {
	clearEnvironment(t)

	configPath := filepath.Join(t.TempDir(), "resolve.yaml")
	if err := os.WriteFile(configPath, []byte("api:\n  base_url: http://from-file:8080\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("VITE_API_URL", "http://from-vite:8080")
	t.Setenv("RESOLVE_API_URL", "http://from-resolve:8080")

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.API.BaseURL != "http://from-resolve:8080" {
		t.Errorf("base_url = %q, want RESOLVE_API_URL value", cfg.API.BaseURL)
	}
}

func TestLoadFile_ExpandsVariables(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("HOME", "/home/tester")

	configPath := filepath.Join(t.TempDir(), "resolve.yaml")
	content := `
session:
  file: ${HOME}/state/session.json
chat:
  history_dir: ${RESOLVE_TEST_UNSET:-/var/tmp/chat}
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.SessionFilePath() != "/home/tester/state/session.json" {
		t.Errorf("SessionFilePath() = %q", cfg.SessionFilePath())
	}
	if cfg.ChatHistoryDir() != "/var/tmp/chat" {
		t.Errorf("ChatHistoryDir() = %q", cfg.ChatHistoryDir())
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	clearEnvironment(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestSessionFilePath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	cfg := Default()

	if got := cfg.SessionFilePath(); got != "/xdg/resolve/session.json" {
		t.Errorf("SessionFilePath() = %q, want /xdg/resolve/session.json", got)
	}
	if got := cfg.ChatHistoryDir(); got != "/xdg/resolve/chat" {
		t.Errorf("ChatHistoryDir() = %q, want /xdg/resolve/chat", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.Environment = "qa" },
			wantErr: "invalid environment",
		},
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: "api.base_url is required",
		},
		{
			name:    "base url without scheme",
			mutate:  func(c *Config) { c.API.BaseURL = "localhost:8080" },
			wantErr: "must start with http",
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.API.Timeout = "soon" },
			wantErr: "api.timeout",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.UI.Theme = "neon" },
			wantErr: "ui.theme",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, test.wantErr)
			}
		})
	}
}

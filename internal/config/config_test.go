package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"slacknotifier/internal/config"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	unsetEnv(t, "SLACK_WEBHOOK_URL")
	unsetEnv(t, "SLACKNOTIFIER_API_TOKEN")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "slacknotifier")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.SettingsDBPath() != filepath.Join(wantData, "settings.db") {
		t.Fatalf("unexpected settings db path: %q", cfg.SettingsDBPath())
	}
	if cfg.LockPath() != filepath.Join(wantData, "slacknotifier.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.Paths.APIBind != "127.0.0.1:8111" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Slack.Username != "TeamCity" {
		t.Fatalf("unexpected username: %q", cfg.Slack.Username)
	}
	if cfg.Slack.PostStarted {
		t.Fatal("expected post_started disabled by default")
	}
	if !cfg.Slack.PostSuccessful || !cfg.Slack.PostFailed {
		t.Fatal("expected post_successful and post_failed enabled by default")
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("unexpected request timeout: %s", cfg.RequestTimeout())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	unsetEnv(t, "SLACK_WEBHOOK_URL")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `[paths]
data_dir = "~/notifier"
api_bind = "0.0.0.0:9000"

[slack]
webhook_url = "  https://hooks.example.com/services/T/B/X  "
default_channel = "#ci"
username = "Builder"
post_started = true
post_successful = false
build_failed_permalink = "https://ci.example.com/failed"
request_timeout = 3

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "notifier") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Slack.WebhookURL != "https://hooks.example.com/services/T/B/X" {
		t.Fatalf("expected trimmed webhook url, got %q", cfg.Slack.WebhookURL)
	}
	if !cfg.Slack.PostStarted || cfg.Slack.PostSuccessful || !cfg.Slack.PostFailed {
		t.Fatalf("unexpected toggles: %+v", cfg.Slack)
	}
	if cfg.Slack.Username != "Builder" {
		t.Fatalf("unexpected username: %q", cfg.Slack.Username)
	}
	if cfg.RequestTimeout() != 3*time.Second {
		t.Fatalf("unexpected request timeout: %s", cfg.RequestTimeout())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging values, got %+v", cfg.Logging)
	}
}

func TestLoadUsesEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.example.com/env")
	t.Setenv("SLACKNOTIFIER_API_TOKEN", " secret ")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Slack.WebhookURL != "https://hooks.example.com/env" {
		t.Fatalf("expected webhook from env, got %q", cfg.Slack.WebhookURL)
	}
	if cfg.Paths.APIToken != "secret" {
		t.Fatalf("expected api token from env, got %q", cfg.Paths.APIToken)
	}
}

func TestLoadReadsDotEnvNextToConfig(t *testing.T) {
	unsetEnv(t, "SLACK_WEBHOOK_URL")
	unsetEnv(t, "SLACKNOTIFIER_API_TOKEN")
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[slack]\ndefault_channel = \"#ci\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	dotenv := "SLACK_WEBHOOK_URL=https://hooks.example.com/dotenv\nSLACKNOTIFIER_API_TOKEN=from-dotenv\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Slack.WebhookURL != "https://hooks.example.com/dotenv" {
		t.Fatalf("expected webhook from .env, got %q", cfg.Slack.WebhookURL)
	}
	if cfg.Paths.APIToken != "from-dotenv" {
		t.Fatalf("expected api token from .env, got %q", cfg.Paths.APIToken)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"timeout", func(c *config.Config) { c.Slack.RequestTimeout = 0 }, "slack.request_timeout"},
		{"username", func(c *config.Config) { c.Slack.Username = " " }, "slack.username"},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"data dir", func(c *config.Config) { c.Paths.DataDir = "" }, "paths.data_dir"},
		{"api bind", func(c *config.Config) { c.Paths.APIBind = "" }, "paths.api_bind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestWebhookEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"https", "https://hooks.slack.com/services/A/B/C", false},
		{"http", "http://localhost:8080/hook", false},
		{"empty", "", true},
		{"scheme", "ftp://hooks.example.com", true},
		{"relative", "/services/A/B/C", true},
		{"garbage", "http://[::1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint, err := config.Slack{WebhookURL: tt.value}.WebhookEndpoint()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.value, endpoint)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	_, err := config.Slack{}.WebhookEndpoint()
	if !errors.Is(err, config.ErrWebhookNotConfigured) {
		t.Fatalf("expected ErrWebhookNotConfigured, got %v", err)
	}
}

func TestSampleConfigParses(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Slack.Username != "TeamCity" {
		t.Fatalf("unexpected sample username: %q", cfg.Slack.Username)
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists || loaded.Slack.DefaultChannel != "#builds" {
		t.Fatalf("unexpected sample load result: exists=%v channel=%q", exists, loaded.Slack.DefaultChannel)
	}
}

func TestEnsureDirectoriesCreatesPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}

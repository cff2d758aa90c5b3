package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
bot:
  app_id: cli_a1
  app_secret: s3cret
store:
  driver: XLSX
  spreadsheet: " Voucher "
session:
  driver: sqlite
  path: /tmp/sessions.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cli_a1", cfg.Bot.AppID)
	assert.Equal(t, "websocket", cfg.Bot.Mode)
	assert.Equal(t, "id", cfg.Bot.Locale)
	assert.Equal(t, "xlsx", cfg.Store.Driver)
	assert.Equal(t, "Voucher", cfg.Store.Spreadsheet)
	assert.Equal(t, DefaultCredentialsFile, cfg.Store.CredentialsFile)
	assert.Equal(t, 15*time.Second, cfg.Store.AppendTimeout)
	assert.Equal(t, "sqlite", cfg.Session.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
bot:
  app_id: from_file
  app_secret: from_file
`)
	t.Setenv("LARK_APP_ID", "cli_env")
	t.Setenv("SPREADSHEET_NAME", "shtcnEnv")
	t.Setenv("SHEETS_CREDENTIALS_JSON", `{"app_id":"x","app_secret":"y"}`)
	t.Setenv("STORE_DRIVER", "lark")
	t.Setenv("BOT_LOCALE", "en")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cli_env", cfg.Bot.AppID)
	assert.Equal(t, "from_file", cfg.Bot.AppSecret)
	assert.Equal(t, "shtcnEnv", cfg.Store.Spreadsheet)
	assert.Equal(t, `{"app_id":"x","app_secret":"y"}`, cfg.Store.CredentialsJSON)
	assert.Equal(t, "en", cfg.Bot.Locale)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_NoFileUsesEnvironmentOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LARK_APP_ID", "cli_env")
	t.Setenv("LARK_APP_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "cli_env", cfg.Bot.AppID)
	assert.Equal(t, "memory", cfg.Session.Driver)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "LARK_APP_ID=cli_dotenv\nLARK_APP_SECRET=dotenv_secret\n")
	t.Cleanup(func() {
		os.Unsetenv("LARK_APP_ID")
		os.Unsetenv("LARK_APP_SECRET")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "cli_dotenv", cfg.Bot.AppID)
	assert.Equal(t, "dotenv_secret", cfg.Bot.AppSecret)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Bot:     BotConfig{AppID: "a", AppSecret: "b", Mode: "websocket", WebhookPath: "/webhook/event"},
			Session: SessionConfig{Driver: "memory"},
			Server:  ServerConfig{Enabled: true, Port: 8080},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing app id", func(c *Config) { c.Bot.AppID = "" }, true},
		{"missing app secret", func(c *Config) { c.Bot.AppSecret = "" }, true},
		{"unknown mode", func(c *Config) { c.Bot.Mode = "polling" }, true},
		{"webhook without server", func(c *Config) { c.Bot.Mode = "webhook"; c.Server.Enabled = false }, true},
		{"webhook with bad path", func(c *Config) { c.Bot.Mode = "webhook"; c.Bot.WebhookPath = "hook" }, true},
		{"webhook", func(c *Config) { c.Bot.Mode = "webhook" }, false},
		{"unknown session driver", func(c *Config) { c.Session.Driver = "redis" }, true},
		{"sqlite without path", func(c *Config) { c.Session.Driver = "sqlite" }, true},
		{"negative timeout", func(c *Config) { c.Store.AppendTimeout = -time.Second }, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"bad port ignored when server disabled", func(c *Config) { c.Server.Port = 0; c.Server.Enabled = false }, false},
		{"no spreadsheet is not fatal", func(c *Config) { c.Store.Spreadsheet = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

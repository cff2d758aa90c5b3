// Package container provides dependency injection and lifecycle management
// for the voucher bot.
package container

import (
	"fmt"
	"time"

	"github.com/garyjia/voucher-bot/internal/config"
	"github.com/garyjia/voucher-bot/internal/infrastructure/sheets"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Lark bot settings
	Bot BotConfig

	// Spreadsheet store settings
	Store StoreConfig

	// Conversation session settings
	Session SessionConfig

	// HTTP server settings
	Server ServerConfig
}

// BotConfig holds Lark bot settings.
type BotConfig struct {
	AppID             string
	AppSecret         string
	VerificationToken string
	EncryptKey        string

	// Mode is "websocket" or "webhook"
	Mode        string
	WebhookPath string

	// Locale selects the message catalog ("id", "en")
	Locale string
}

// StoreConfig holds spreadsheet settings.
type StoreConfig struct {
	// Driver is "lark" or "xlsx"
	Driver      string
	Spreadsheet string

	// CredentialsJSON is tried before CredentialsFile
	CredentialsJSON string
	CredentialsFile string

	// AppendTimeout bounds one append call; zero disables the bound
	AppendTimeout time.Duration
}

// SessionConfig holds session store settings.
type SessionConfig struct {
	// Driver is "memory" or "sqlite"
	Driver string

	// Path to the SQLite file when Driver is "sqlite"
	Path string

	// Sessions idle longer than IdleTTL are dropped every SweepInterval
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Enabled      bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const (
	ModeWebSocket = "websocket"
	ModeWebhook   = "webhook"

	SessionDriverMemory = "memory"
	SessionDriverSQLite = "sqlite"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			Mode:        ModeWebSocket,
			WebhookPath: "/webhook/event",
			Locale:      "id",
		},
		Store: StoreConfig{
			Driver:          sheets.DriverLark,
			CredentialsFile: config.DefaultCredentialsFile,
			AppendTimeout:   15 * time.Second,
		},
		Session: SessionConfig{
			Driver:        SessionDriverMemory,
			Path:          "data/sessions.db",
			IdleTTL:       24 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Server: ServerConfig{
			Enabled:      true,
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// FromAppConfig maps the loaded application configuration onto the
// container's subsystem configs.
func FromAppConfig(cfg *config.Config) *Config {
	return &Config{
		Bot: BotConfig{
			AppID:             cfg.Bot.AppID,
			AppSecret:         cfg.Bot.AppSecret,
			VerificationToken: cfg.Bot.VerificationToken,
			EncryptKey:        cfg.Bot.EncryptKey,
			Mode:              cfg.Bot.Mode,
			WebhookPath:       cfg.Bot.WebhookPath,
			Locale:            cfg.Bot.Locale,
		},
		Store: StoreConfig{
			Driver:          cfg.Store.Driver,
			Spreadsheet:     cfg.Store.Spreadsheet,
			CredentialsJSON: cfg.Store.CredentialsJSON,
			CredentialsFile: cfg.Store.CredentialsFile,
			AppendTimeout:   cfg.Store.AppendTimeout,
		},
		Session: SessionConfig{
			Driver:        cfg.Session.Driver,
			Path:          cfg.Session.Path,
			IdleTTL:       cfg.Session.IdleTTL,
			SweepInterval: cfg.Session.SweepInterval,
		},
		Server: ServerConfig{
			Enabled:      cfg.Server.Enabled,
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Bot.AppID == "" {
		return fmt.Errorf("bot.app_id is required")
	}
	if c.Bot.AppSecret == "" {
		return fmt.Errorf("bot.app_secret is required")
	}

	switch c.Bot.Mode {
	case ModeWebSocket:
	case ModeWebhook:
		if !c.Server.Enabled {
			return fmt.Errorf("bot.mode webhook requires the http server")
		}
	default:
		return fmt.Errorf("unknown bot.mode %q", c.Bot.Mode)
	}

	switch c.Session.Driver {
	case SessionDriverMemory:
	case SessionDriverSQLite:
		if c.Session.Path == "" {
			return fmt.Errorf("session.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown session.driver %q", c.Session.Driver)
	}

	return nil
}

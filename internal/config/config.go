package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Bot     BotConfig     `mapstructure:"bot"`
	Store   StoreConfig   `mapstructure:"store"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// BotConfig holds the Lark bot app settings
type BotConfig struct {
	AppID             string `mapstructure:"app_id"`
	AppSecret         string `mapstructure:"app_secret"`
	VerificationToken string `mapstructure:"verification_token"`
	EncryptKey        string `mapstructure:"encrypt_key"`
	// Mode is "websocket" (long connection) or "webhook" (event callback on the HTTP server)
	Mode        string `mapstructure:"mode"`
	WebhookPath string `mapstructure:"webhook_path"`
	Locale      string `mapstructure:"locale"`
}

// StoreConfig holds the spreadsheet settings
type StoreConfig struct {
	// Driver is "lark" or "xlsx"
	Driver string `mapstructure:"driver"`
	// Spreadsheet is the Lark spreadsheet token or the workbook path
	Spreadsheet     string        `mapstructure:"spreadsheet"`
	CredentialsJSON string        `mapstructure:"credentials_json"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	AppendTimeout   time.Duration `mapstructure:"append_timeout"`
}

// SessionConfig holds the conversation session settings
type SessionConfig struct {
	// Driver is "memory" or "sqlite"
	Driver        string        `mapstructure:"driver"`
	Path          string        `mapstructure:"path"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads .env (if present), then the YAML file at configPath, then
// environment overrides. An empty configPath searches ./configs and the
// working directory for config.yaml and tolerates its absence.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.mode", "websocket")
	v.SetDefault("bot.webhook_path", "/webhook/event")
	v.SetDefault("bot.locale", "id")

	v.SetDefault("store.driver", "lark")
	v.SetDefault("store.spreadsheet", "")
	v.SetDefault("store.credentials_json", "")
	v.SetDefault("store.credentials_file", DefaultCredentialsFile)
	v.SetDefault("store.append_timeout", 15*time.Second)

	v.SetDefault("session.driver", "memory")
	v.SetDefault("session.path", "data/sessions.db")
	v.SetDefault("session.idle_ttl", 24*time.Hour)
	v.SetDefault("session.sweep_interval", 10*time.Minute)

	v.SetDefault("server.enabled", true)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	// Sensitive credentials from environment
	_ = v.BindEnv("bot.app_id", "LARK_APP_ID")
	_ = v.BindEnv("bot.app_secret", "LARK_APP_SECRET")
	_ = v.BindEnv("bot.verification_token", "LARK_VERIFICATION_TOKEN")
	_ = v.BindEnv("bot.encrypt_key", "LARK_ENCRYPT_KEY")
	_ = v.BindEnv("bot.mode", "BOT_MODE")
	_ = v.BindEnv("bot.locale", "BOT_LOCALE")

	_ = v.BindEnv("store.driver", "STORE_DRIVER")
	_ = v.BindEnv("store.spreadsheet", "SPREADSHEET_NAME")
	_ = v.BindEnv("store.credentials_json", "SHEETS_CREDENTIALS_JSON")
	_ = v.BindEnv("store.credentials_file", "SHEETS_CREDENTIALS_FILE")

	_ = v.BindEnv("session.driver", "SESSION_DRIVER")
	_ = v.BindEnv("session.path", "SESSION_DB_PATH")

	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
}

func (c *Config) normalize() {
	c.Bot.Mode = strings.ToLower(strings.TrimSpace(c.Bot.Mode))
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Session.Driver = strings.ToLower(strings.TrimSpace(c.Session.Driver))
	c.Store.Spreadsheet = strings.TrimSpace(c.Store.Spreadsheet)
}

// Validate validates the configuration. Store settings are not checked here:
// a missing or broken store only degrades the bot.
func (c *Config) Validate() error {
	if c.Bot.AppID == "" {
		return fmt.Errorf("bot.app_id is required")
	}
	if c.Bot.AppSecret == "" {
		return fmt.Errorf("bot.app_secret is required")
	}

	switch c.Bot.Mode {
	case "websocket":
	case "webhook":
		if !c.Server.Enabled {
			return fmt.Errorf("bot.mode webhook requires server.enabled")
		}
		if !strings.HasPrefix(c.Bot.WebhookPath, "/") {
			return fmt.Errorf("bot.webhook_path must start with /")
		}
	default:
		return fmt.Errorf("bot.mode must be websocket or webhook, got %q", c.Bot.Mode)
	}

	switch c.Session.Driver {
	case "memory":
	case "sqlite":
		if c.Session.Path == "" {
			return fmt.Errorf("session.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("session.driver must be memory or sqlite, got %q", c.Session.Driver)
	}

	if c.Store.AppendTimeout < 0 {
		return fmt.Errorf("store.append_timeout must not be negative")
	}

	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	return nil
}

// Address returns host:port for the HTTP server
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

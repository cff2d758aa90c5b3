package lark

import (
	"errors"
	"strings"
	"time"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	"go.uber.org/zap"
)

// ErrMissingAppCredentials is returned when the app ID or secret is empty
var ErrMissingAppCredentials = errors.New("lark app id and app secret are required")

// SDKClient wraps the Lark SDK client. The bot and the spreadsheet store
// each get their own, since they may authenticate as different apps.
type SDKClient struct {
	client *lark.Client
	appID  string
	logger *zap.Logger
}

// Config holds Lark client configuration
type Config struct {
	AppID     string
	AppSecret string
	// LogLevel is debug, info, warn or error; SDK output goes through zap
	LogLevel string
	// RequestTimeout bounds each API call; zero keeps the SDK default
	RequestTimeout time.Duration
}

// NewSDKClient creates a Lark SDK client with tenant token caching
func NewSDKClient(cfg Config, logger *zap.Logger) (*SDKClient, error) {
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, ErrMissingAppCredentials
	}

	opts := []lark.ClientOptionFunc{
		lark.WithLogLevel(parseLogLevel(cfg.LogLevel)),
		lark.WithLogger(NewSDKLogger(logger)),
		lark.WithEnableTokenCache(true),
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, lark.WithReqTimeout(cfg.RequestTimeout))
	}

	return &SDKClient{
		client: lark.NewClient(cfg.AppID, cfg.AppSecret, opts...),
		appID:  cfg.AppID,
		logger: logger,
	}, nil
}

// GetClient returns the underlying Lark SDK client
func (c *SDKClient) GetClient() *lark.Client {
	return c.client
}

// GetAppID returns the app ID
func (c *SDKClient) GetAppID() string {
	return c.appID
}

func parseLogLevel(level string) larkcore.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return larkcore.LogLevelDebug
	case "warn", "warning":
		return larkcore.LogLevelWarn
	case "error":
		return larkcore.LogLevelError
	default:
		return larkcore.LogLevelInfo
	}
}

// Package websocket receives chat events over the Lark long connection.
package websocket

import (
	"context"
	"fmt"
	"sync"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkws "github.com/larksuite/oapi-sdk-go/v3/ws"
	"go.uber.org/zap"

	infralark "github.com/garyjia/voucher-bot/internal/infrastructure/external/lark"
)

// LarkAdapter wraps the Lark WebSocket SDK client. Incoming message events
// are handed to the EventProcessor, which publishes message.received events.
type LarkAdapter struct {
	appID     string
	appSecret string
	processor *infralark.EventProcessor
	logger    *zap.Logger

	wsClient *larkws.Client
	mu       sync.RWMutex
	started  bool
}

// LarkAdapterConfig holds configuration for the Lark WebSocket adapter.
type LarkAdapterConfig struct {
	AppID     string
	AppSecret string
}

// NewLarkAdapter creates a new Lark WebSocket adapter.
func NewLarkAdapter(cfg LarkAdapterConfig, processor *infralark.EventProcessor, logger *zap.Logger) *LarkAdapter {
	return &LarkAdapter{
		appID:     cfg.AppID,
		appSecret: cfg.AppSecret,
		processor: processor,
		logger:    logger,
	}
}

// Start opens the long connection and blocks until ctx is cancelled or the
// client fails.
func (a *LarkAdapter) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return fmt.Errorf("adapter already started")
	}

	// verification token and encrypt key are not used over the long connection
	sdkDispatcher := a.processor.EventDispatcher("", "")

	a.wsClient = larkws.NewClient(
		a.appID,
		a.appSecret,
		larkws.WithEventHandler(sdkDispatcher),
		larkws.WithLogger(infralark.NewSDKLogger(a.logger)),
		larkws.WithLogLevel(larkcore.LogLevelInfo),
	)

	a.started = true
	a.mu.Unlock()

	a.logger.Info("Starting Lark WebSocket adapter", zap.String("app_id", a.appID))

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.wsClient.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		a.markStopped()
		return nil
	case err := <-errCh:
		a.markStopped()
		if err != nil {
			a.logger.Error("Lark WebSocket client error", zap.Error(err))
			return fmt.Errorf("websocket client error: %w", err)
		}
		return nil
	}
}

// Stop marks the adapter stopped. The SDK client itself stops when the
// context passed to Start is cancelled.
func (a *LarkAdapter) Stop() error {
	a.markStopped()
	return nil
}

func (a *LarkAdapter) markStopped() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return
	}
	a.started = false
	a.logger.Info("Lark WebSocket adapter stopped")
}

// IsRunning returns whether the adapter is currently running.
func (a *LarkAdapter) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.started
}

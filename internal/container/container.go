package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/conversation"
	"github.com/garyjia/voucher-bot/internal/application/dispatcher"
	"github.com/garyjia/voucher-bot/internal/application/port"
	"github.com/garyjia/voucher-bot/internal/infrastructure/metrics"
	"github.com/garyjia/voucher-bot/internal/infrastructure/worker"
	httpiface "github.com/garyjia/voucher-bot/internal/interfaces/http"
	"github.com/garyjia/voucher-bot/internal/interfaces/websocket"
	"github.com/garyjia/voucher-bot/pkg/utils"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	sessions *SessionBundle
	store    *StoreBundle

	// Application
	dispatcher dispatcher.Dispatcher
	recorder   *metrics.Recorder
	engine     conversation.Engine

	// Infrastructure - External
	lark *LarkBundle

	// Workers
	workers *worker.Manager

	// Interfaces
	server    *httpiface.Server
	wsAdapter *websocket.LarkAdapter

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components. Components are initialized in order:
// 1. Session store
// 2. Spreadsheet store (degrades instead of failing) and its header row
// 3. Dispatcher, metrics and conversation engine
// 4. Lark clients and the reply path
// 5. Workers
// 6. Transports (HTTP server, WebSocket adapter), started by Serve
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return errAlreadyStarted
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	// Step 1: Session store
	sessions, err := ProvideSessionStore(c.ctx, &c.config.Session, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	c.sessions = sessions
	c.logger.Info("Session store initialized", zap.String("driver", c.config.Session.Driver))

	// Step 2: Spreadsheet store, header written once before any traffic
	c.store = ProvideVoucherSheet(c.ctx, &c.config.Store, c.logger)
	EnsureHeader(c.ctx, c.store, c.logger)

	// Step 3: Dispatcher, metrics and engine
	if err := c.initApplication(); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	c.logger.Info("Conversation engine initialized")

	// Step 4: Lark clients
	larkBundle, err := ProvideLarkClients(&c.config.Bot, c.dispatcher, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize lark clients: %w", err)
	}
	c.lark = larkBundle
	conversation.NewResponder(c.engine, c.lark.Messenger, c.logger).Register(c.dispatcher)
	c.logger.Info("Lark clients initialized")

	// Step 5: Workers
	c.workers = ProvideWorkers(&c.config.Session, c.sessions.Purger, c.logger)
	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	c.logger.Info("Workers initialized and started", zap.Int("count", c.workers.Count()))

	// Step 6: Transports
	c.initTransports()

	c.ready.Store(true)
	c.logger.Info("Container started successfully",
		zap.Bool("store_available", c.store.Available()),
		zap.String("mode", c.config.Bot.Mode))

	return nil
}

func (c *Container) initApplication() error {
	disp, err := ProvideDispatcher(c.logger)
	if err != nil {
		return err
	}
	c.dispatcher = disp
	c.recorder = ProvideMetrics(c.dispatcher)

	engine, err := ProvideConversationEngine(&ConversationDeps{
		Sessions:      c.sessions.Store,
		Sheet:         c.store.Sheet,
		Locale:        c.config.Bot.Locale,
		AppendTimeout: c.config.Store.AppendTimeout,
		Dispatcher:    c.dispatcher,
		Logger:        c.logger,
	})
	if err != nil {
		return err
	}
	c.engine = engine
	return nil
}

func (c *Container) initTransports() {
	if c.config.Server.Enabled {
		deps := httpiface.Dependencies{
			Health:  c.healthFunc,
			Metrics: c.recorder.Handler(),
			States:  c.engine,
		}
		webhookPath := ""
		if c.config.Bot.Mode == ModeWebhook {
			deps.Webhook = c.lark.Processor.EventDispatcher(c.config.Bot.VerificationToken, c.config.Bot.EncryptKey)
			webhookPath = c.config.Bot.WebhookPath
		}

		c.server = httpiface.NewServer(httpiface.ServerConfig{
			Host:         c.config.Server.Host,
			Port:         c.config.Server.Port,
			ReadTimeout:  c.config.Server.ReadTimeout,
			WriteTimeout: c.config.Server.WriteTimeout,
			WebhookPath:  webhookPath,
		}, deps, utils.NewKVLogger(c.logger))
	}

	if c.config.Bot.Mode == ModeWebSocket {
		c.wsAdapter = websocket.NewLarkAdapter(websocket.LarkAdapterConfig{
			AppID:     c.config.Bot.AppID,
			AppSecret: c.config.Bot.AppSecret,
		}, c.lark.Processor, c.logger)
	}
}

// Serve runs the transports until ctx is cancelled or one of them fails.
func (c *Container) Serve(ctx context.Context) error {
	if !c.ready.Load() {
		return fmt.Errorf("container not started")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	run := func(name string, start func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := start(ctx); err != nil {
				errCh <- fmt.Errorf("%s: %w", name, err)
				cancel()
			}
		}()
	}

	if c.server != nil {
		run("http server", c.server.Start)
	}
	if c.wsAdapter != nil {
		run("lark websocket", c.wsAdapter.Start)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	// Step 1: Transports
	if c.wsAdapter != nil {
		if err := c.wsAdapter.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop websocket adapter: %w", err))
		}
	}
	if c.server != nil {
		if err := c.server.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop http server: %w", err))
		}
	}

	// Step 2: Workers
	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
	}

	// Step 3: Dispatcher, waits for in-flight async handlers
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}

	// Step 4: Spreadsheet store
	if c.store != nil {
		if err := closeIfCloser(c.store.Sheet); err != nil {
			c.logger.Error("Failed to close spreadsheet store", zap.Error(err))
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}

	// Step 5: Session database
	if c.sessions != nil && c.sessions.DB != nil {
		if err := c.sessions.DB.Close(); err != nil {
			c.logger.Error("Failed to close session database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close session database: %w", err))
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors: %w", len(errs), errors.Join(errs...))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components. An unavailable
// spreadsheet is reported but does not make the bot unhealthy, since
// conversations keep running in degraded mode.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check session store
	switch {
	case c.sessions == nil:
		status.Components["sessions"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	case c.sessions.DB != nil:
		if err := c.sessions.DB.PingContext(ctx); err != nil {
			status.Components["sessions"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["sessions"] = ComponentHealth{Healthy: true, Message: SessionDriverSQLite}
		}
	default:
		status.Components["sessions"] = ComponentHealth{Healthy: true, Message: SessionDriverMemory}
	}

	// Check spreadsheet store
	switch {
	case c.store == nil:
		status.Components["store"] = ComponentHealth{Healthy: false, Message: "not initialized"}
	case !c.store.Available():
		status.Components["store"] = ComponentHealth{Healthy: false, Message: "unavailable"}
	default:
		status.Components["store"] = ComponentHealth{Healthy: true, Message: c.config.Store.Driver}
	}

	// Check dispatcher
	if c.dispatcher != nil {
		status.Components["dispatcher"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["dispatcher"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	// Check workers
	if c.workers != nil {
		status.Components["workers"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("worker count: %d", c.workers.Count()),
		}
	}

	return status
}

func (c *Container) healthFunc(ctx context.Context) (bool, interface{}) {
	status := c.Health(ctx)
	return status.Overall, status.Components
}

// Getters for accessing container components

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Engine returns the conversation engine.
func (c *Container) Engine() conversation.Engine {
	return c.engine
}

// VoucherSheet returns the spreadsheet store, possibly the unavailable one.
func (c *Container) VoucherSheet() port.VoucherSheet {
	if c.store == nil {
		return nil
	}
	return c.store.Sheet
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.Manager {
	return c.workers
}

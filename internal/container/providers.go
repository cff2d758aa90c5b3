package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/conversation"
	"github.com/garyjia/voucher-bot/internal/application/dispatcher"
	"github.com/garyjia/voucher-bot/internal/application/port"
	"github.com/garyjia/voucher-bot/internal/config"
	infralark "github.com/garyjia/voucher-bot/internal/infrastructure/external/lark"
	"github.com/garyjia/voucher-bot/internal/infrastructure/metrics"
	"github.com/garyjia/voucher-bot/internal/infrastructure/persistence/memory"
	"github.com/garyjia/voucher-bot/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/voucher-bot/internal/infrastructure/sheets"
	"github.com/garyjia/voucher-bot/internal/infrastructure/worker"
	"github.com/garyjia/voucher-bot/internal/messages"
	"github.com/garyjia/voucher-bot/pkg/database"
	"github.com/garyjia/voucher-bot/pkg/utils"
)

// SessionBundle holds the session store and what backs it.
type SessionBundle struct {
	Store port.SessionStore
	// Purger is nil when the store cannot drop idle sessions
	Purger port.SessionPurger
	// DB is set for the sqlite driver only
	DB *database.DB
}

// StoreBundle holds the spreadsheet adapter and its setup result.
type StoreBundle struct {
	Sheet port.VoucherSheet
	// Cause is why the store is unavailable; nil when it is usable
	Cause error
}

// Available reports whether appends can reach a real spreadsheet.
func (b *StoreBundle) Available() bool {
	return b.Cause == nil
}

// LarkBundle holds all Lark-related components.
type LarkBundle struct {
	Client    *infralark.SDKClient
	Messenger *infralark.Messenger
	Processor *infralark.EventProcessor
}

// ConversationDeps holds what the conversation engine is built from.
type ConversationDeps struct {
	Sessions      port.SessionStore
	Sheet         port.VoucherSheet
	Locale        string
	AppendTimeout time.Duration
	Dispatcher    dispatcher.Dispatcher
	Logger        *zap.Logger
}

// ProvideSessionStore creates the configured session store. The sqlite
// driver opens the database and applies its migrations.
func ProvideSessionStore(ctx context.Context, cfg *SessionConfig, logger *zap.Logger) (*SessionBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("session config is required")
	}

	switch cfg.Driver {
	case SessionDriverMemory, "":
		store := memory.NewSessionStore()
		return &SessionBundle{Store: store, Purger: store}, nil

	case SessionDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		store := sqlite.NewSessionStore(db, logger)
		return &SessionBundle{Store: store, Purger: store, DB: db}, nil

	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Driver)
	}
}

// ProvideVoucherSheet resolves store credentials and opens the spreadsheet.
// Setup failures never fail the provider: the bundle then carries an
// unavailable sheet and the cause.
func ProvideVoucherSheet(ctx context.Context, cfg *StoreConfig, logger *zap.Logger) *StoreBundle {
	opts := sheets.Options{
		Driver:         cfg.Driver,
		Spreadsheet:    cfg.Spreadsheet,
		RequestTimeout: cfg.AppendTimeout,
	}

	if opts.Driver == sheets.DriverLark || opts.Driver == "" {
		creds, err := config.ResolveCredentials(cfg.CredentialsJSON, cfg.CredentialsFile)
		if err != nil {
			logger.Warn("Spreadsheet store unavailable, conversations will not be recorded",
				zap.Error(err))
			return &StoreBundle{Sheet: sheets.NewUnavailable(err), Cause: err}
		}
		logger.Info("Spreadsheet credentials resolved", zap.String("source", creds.Source))
		opts.AppID = creds.AppID
		opts.AppSecret = creds.AppSecret
	}

	sheet, err := sheets.Open(ctx, opts, logger)
	if err != nil {
		logger.Warn("Spreadsheet store unavailable, conversations will not be recorded",
			zap.String("driver", opts.Driver),
			zap.Error(err))
		return &StoreBundle{Sheet: sheet, Cause: err}
	}

	logger.Info("Spreadsheet store ready",
		zap.String("driver", opts.Driver),
		zap.String("spreadsheet", opts.Spreadsheet))
	return &StoreBundle{Sheet: sheet}
}

// EnsureHeader writes the header row once. A failure marks the store
// unavailable rather than stopping startup.
func EnsureHeader(ctx context.Context, bundle *StoreBundle, logger *zap.Logger) {
	if !bundle.Available() {
		return
	}
	if err := bundle.Sheet.EnsureHeader(ctx); err != nil {
		logger.Warn("Failed to initialize spreadsheet header, store disabled", zap.Error(err))
		bundle.Sheet = sheets.NewUnavailable(err)
		bundle.Cause = err
	}
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewKVLogger(logger))), nil
}

// ProvideConversationEngine builds the conversation engine publishing on
// the dispatcher.
func ProvideConversationEngine(deps *ConversationDeps) (conversation.Engine, error) {
	if deps == nil {
		return nil, fmt.Errorf("conversation deps are required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}

	catalog := messages.New(deps.Locale)
	deps.Logger.Info("Message catalog selected", zap.String("locale", catalog.Locale().String()))

	return conversation.NewEngine(
		deps.Sessions,
		deps.Sheet,
		catalog,
		conversation.WithAppendTimeout(deps.AppendTimeout),
		conversation.WithPublisher(deps.Dispatcher),
		conversation.WithLogger(deps.Logger),
	), nil
}

// ProvideLarkClients creates the SDK client, the messenger and the inbound
// event processor.
func ProvideLarkClients(cfg *BotConfig, publisher infralark.Publisher, logger *zap.Logger) (*LarkBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot config is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}

	client, err := infralark.NewSDKClient(infralark.Config{
		AppID:     cfg.AppID,
		AppSecret: cfg.AppSecret,
		LogLevel:  "info",
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create lark client: %w", err)
	}

	return &LarkBundle{
		Client:    client,
		Messenger: infralark.NewMessenger(client, logger),
		Processor: infralark.NewEventProcessor(publisher, logger),
	}, nil
}

// ProvideMetrics creates the recorder and subscribes it to every event.
func ProvideMetrics(d dispatcher.Dispatcher) *metrics.Recorder {
	recorder := metrics.NewRecorder()
	recorder.Register(d)
	return recorder
}

// ProvideWorkers creates the worker manager. The session janitor is added
// when the store can purge idle sessions.
func ProvideWorkers(cfg *SessionConfig, purger port.SessionPurger, logger *zap.Logger) *worker.Manager {
	manager := worker.NewManager(logger)

	if purger == nil {
		return manager
	}

	janitorCfg := worker.DefaultSessionJanitorConfig()
	if cfg.SweepInterval > 0 {
		janitorCfg.Interval = cfg.SweepInterval
	}
	if cfg.IdleTTL > 0 {
		janitorCfg.IdleTTL = cfg.IdleTTL
	}
	manager.Register(worker.NewSessionJanitor(janitorCfg, purger, port.SystemClock{}, logger))

	return manager
}

// closeIfCloser closes v when it holds resources.
func closeIfCloser(v interface{}) error {
	closer, ok := v.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}

var errAlreadyStarted = errors.New("container already started")

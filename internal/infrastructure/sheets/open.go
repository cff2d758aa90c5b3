package sheets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/port"
	infralark "github.com/garyjia/voucher-bot/internal/infrastructure/external/lark"
)

const (
	DriverLark = "lark"
	DriverXLSX = "xlsx"
)

// ErrNotConfigured is the setup cause when no spreadsheet name is given
var ErrNotConfigured = errors.New("spreadsheet not configured")

// Options selects and configures the spreadsheet backend
type Options struct {
	Driver string
	// Spreadsheet is the Lark spreadsheet token or the workbook path
	Spreadsheet string
	// AppID and AppSecret authenticate the Lark app that owns the spreadsheet
	AppID     string
	AppSecret string
	// RequestTimeout bounds each Lark API call; zero keeps the SDK default
	RequestTimeout time.Duration
}

// Open builds the configured store. On any setup failure it returns an
// Unavailable store together with the cause, so the caller can log it and
// keep serving in degraded mode.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (port.VoucherSheet, error) {
	sheet, err := open(ctx, opts, logger)
	if err != nil {
		return NewUnavailable(err), err
	}
	return sheet, nil
}

func open(ctx context.Context, opts Options, logger *zap.Logger) (port.VoucherSheet, error) {
	if strings.TrimSpace(opts.Spreadsheet) == "" {
		return nil, ErrNotConfigured
	}

	switch strings.ToLower(opts.Driver) {
	case DriverLark, "":
		client, err := infralark.NewSDKClient(infralark.Config{
			AppID:          opts.AppID,
			AppSecret:      opts.AppSecret,
			LogLevel:       "warn",
			RequestTimeout: opts.RequestTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("lark sheets: %w", err)
		}
		return NewLarkSheet(ctx, client.GetClient(), opts.Spreadsheet, logger)

	case DriverXLSX:
		path := opts.Spreadsheet
		if filepath.Ext(path) == "" {
			path += ".xlsx"
		}
		return OpenWorkbook(path, logger)

	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

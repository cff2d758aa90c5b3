package sheets

import (
	"context"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/port"
	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

// LarkSheet appends voucher rows to the first worksheet of a Lark spreadsheet
type LarkSheet struct {
	api              valuesAPI
	spreadsheetToken string
	sheetID          string
	logger           *zap.Logger
}

// NewLarkSheet resolves the first worksheet of the spreadsheet and returns the adapter
func NewLarkSheet(ctx context.Context, client *lark.Client, spreadsheetToken string, logger *zap.Logger) (*LarkSheet, error) {
	return newLarkSheet(ctx, newLarkValuesClient(client), spreadsheetToken, logger)
}

func newLarkSheet(ctx context.Context, api valuesAPI, spreadsheetToken string, logger *zap.Logger) (*LarkSheet, error) {
	if spreadsheetToken == "" {
		return nil, fmt.Errorf("spreadsheet token is required")
	}

	sheetID, err := api.FirstSheetID(ctx, spreadsheetToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", spreadsheetToken, err)
	}

	logger.Info("Lark spreadsheet opened",
		zap.String("spreadsheet_token", spreadsheetToken),
		zap.String("sheet_id", sheetID))

	return &LarkSheet{
		api:              api,
		spreadsheetToken: spreadsheetToken,
		sheetID:          sheetID,
		logger:           logger,
	}, nil
}

// EnsureHeader writes the header row when A1:D1 is blank
func (s *LarkSheet) EnsureHeader(ctx context.Context) error {
	existing, err := s.api.ReadRange(ctx, s.spreadsheetToken, qualify(s.sheetID, headerRange))
	if err != nil {
		return fmt.Errorf("%w: read header: %w", port.ErrStoreWrite, err)
	}
	if !isBlankRow(existing) {
		s.logger.Debug("Header row already present", zap.String("sheet_id", s.sheetID))
		return nil
	}

	if err := s.api.WriteRange(ctx, s.spreadsheetToken, qualify(s.sheetID, headerRange), [][]interface{}{headerValues()}); err != nil {
		return fmt.Errorf("%w: write header: %w", port.ErrStoreWrite, err)
	}

	s.logger.Info("Header row written", zap.String("sheet_id", s.sheetID))
	return nil
}

// AppendRecord appends one row after the last used row
func (s *LarkSheet) AppendRecord(ctx context.Context, record *conversation.VoucherRecord) error {
	if err := s.api.AppendRows(ctx, s.spreadsheetToken, qualify(s.sheetID, dataColumns), [][]interface{}{record.Row()}); err != nil {
		return fmt.Errorf("%w: append row: %w", port.ErrStoreWrite, err)
	}
	return nil
}

var _ port.VoucherSheet = (*LarkSheet)(nil)

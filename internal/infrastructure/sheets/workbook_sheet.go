package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/port"
	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

// WorkbookSheet appends voucher rows to the first worksheet of a local .xlsx
// file. The workbook is saved after every write.
type WorkbookSheet struct {
	mu     sync.Mutex
	file   *excelize.File
	path   string
	sheet  string
	logger *zap.Logger
}

// OpenWorkbook opens the workbook at path, creating it when missing
func OpenWorkbook(path string, logger *zap.Logger) (*WorkbookSheet, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path is required")
	}

	var (
		f   *excelize.File
		err error
	)
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create workbook %s: %w", path, err)
		}
		logger.Info("Workbook created", zap.String("path", path))
	} else {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
		}
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("workbook %s has no worksheets", path)
	}

	logger.Info("Workbook opened",
		zap.String("path", path),
		zap.String("sheet", sheets[0]))

	return &WorkbookSheet{
		file:   f,
		path:   path,
		sheet:  sheets[0],
		logger: logger,
	}, nil
}

// EnsureHeader writes the header row when A1:D1 is blank
func (w *WorkbookSheet) EnsureHeader(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	blank := true
	for col := 1; col <= len(conversation.HeaderRow()); col++ {
		cell, err := excelize.CoordinatesToCellName(col, 1)
		if err != nil {
			return fmt.Errorf("%w: %w", port.ErrStoreWrite, err)
		}
		value, err := w.file.GetCellValue(w.sheet, cell)
		if err != nil {
			return fmt.Errorf("%w: read header: %w", port.ErrStoreWrite, err)
		}
		if value != "" {
			blank = false
			break
		}
	}
	if !blank {
		return nil
	}

	header := headerValues()
	if err := w.file.SetSheetRow(w.sheet, "A1", &header); err != nil {
		return fmt.Errorf("%w: write header: %w", port.ErrStoreWrite, err)
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("%w: save workbook: %w", port.ErrStoreWrite, err)
	}

	w.logger.Info("Header row written", zap.String("path", w.path))
	return nil
}

// AppendRecord writes the record into the first row after the last used one
func (w *WorkbookSheet) AppendRecord(ctx context.Context, record *conversation.VoucherRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", port.ErrStoreWrite, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.file.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("%w: read rows: %w", port.ErrStoreWrite, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("%w: %w", port.ErrStoreWrite, err)
	}

	rowNum := len(rows) + 1
	row := record.Row()
	if err := w.file.SetSheetRow(w.sheet, cell, &row); err != nil {
		w.rollback(rowNum)
		return fmt.Errorf("%w: append row: %w", port.ErrStoreWrite, err)
	}
	if err := w.file.Save(); err != nil {
		// an unsaved row must not reach disk with a later append
		w.rollback(rowNum)
		return fmt.Errorf("%w: save workbook: %w", port.ErrStoreWrite, err)
	}

	return nil
}

// rollback drops a row written in memory but not saved
func (w *WorkbookSheet) rollback(rowNum int) {
	if err := w.file.RemoveRow(w.sheet, rowNum); err != nil {
		w.logger.Error("Failed to roll back unsaved row",
			zap.String("path", w.path),
			zap.Int("row", rowNum),
			zap.Error(err))
	}
}

// Close releases the workbook
func (w *WorkbookSheet) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

var _ port.VoucherSheet = (*WorkbookSheet)(nil)

package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/port"
	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

// fakeValuesAPI keeps a sparse grid keyed by row, standing in for the Lark values endpoints
type fakeValuesAPI struct {
	sheetID   string
	sheetErr  error
	rows      [][]interface{}
	readErr   error
	appendErr error

	writes  []string
	appends []string
}

func (f *fakeValuesAPI) FirstSheetID(ctx context.Context, spreadsheetToken string) (string, error) {
	return f.sheetID, f.sheetErr
}

func (f *fakeValuesAPI) ReadRange(ctx context.Context, spreadsheetToken, rng string) ([][]interface{}, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if len(f.rows) == 0 {
		return [][]interface{}{{nil, nil, nil, nil}}, nil
	}
	return f.rows[:1], nil
}

func (f *fakeValuesAPI) WriteRange(ctx context.Context, spreadsheetToken, rng string, values [][]interface{}) error {
	f.writes = append(f.writes, rng)
	if len(f.rows) == 0 {
		f.rows = append(f.rows, values...)
		return nil
	}
	f.rows[0] = values[0]
	return nil
}

func (f *fakeValuesAPI) AppendRows(ctx context.Context, spreadsheetToken, rng string, values [][]interface{}) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends = append(f.appends, rng)
	f.rows = append(f.rows, values...)
	return nil
}

func testRecord() *conversation.VoucherRecord {
	return &conversation.VoucherRecord{
		Timestamp:   time.Date(2024, 11, 2, 14, 3, 27, 0, time.Local),
		Name:        "Alice",
		VoucherType: "Netflix",
		Amount:      25.5,
	}
}

func TestLarkSheet_EnsureHeaderIsIdempotent(t *testing.T) {
	api := &fakeValuesAPI{sheetID: "a1b2c3"}
	sheet, err := newLarkSheet(context.Background(), api, "shtToken", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sheet.EnsureHeader(context.Background()))
	require.NoError(t, sheet.EnsureHeader(context.Background()))

	assert.Equal(t, []string{"a1b2c3!A1:D1"}, api.writes)
	require.Len(t, api.rows, 1)
	assert.Equal(t, []interface{}{"Date", "Name", "Voucher Type", "Amount"}, api.rows[0])
}

func TestLarkSheet_EnsureHeaderKeepsExistingFirstRow(t *testing.T) {
	api := &fakeValuesAPI{
		sheetID: "a1b2c3",
		rows:    [][]interface{}{{"Tanggal", nil, nil, nil}},
	}
	sheet, err := newLarkSheet(context.Background(), api, "shtToken", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sheet.EnsureHeader(context.Background()))
	assert.Empty(t, api.writes)
}

func TestLarkSheet_AppendRecord(t *testing.T) {
	api := &fakeValuesAPI{sheetID: "a1b2c3"}
	sheet, err := newLarkSheet(context.Background(), api, "shtToken", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sheet.EnsureHeader(context.Background()))
	require.NoError(t, sheet.AppendRecord(context.Background(), testRecord()))

	assert.Equal(t, []string{"a1b2c3!A:D"}, api.appends)
	require.Len(t, api.rows, 2)
	assert.Equal(t, []interface{}{"2024-11-02 14:03:27", "Alice", "Netflix", 25.5}, api.rows[1])
}

func TestLarkSheet_ErrorsWrapStoreWrite(t *testing.T) {
	api := &fakeValuesAPI{sheetID: "a1b2c3", appendErr: errors.New("code=90202")}
	sheet, err := newLarkSheet(context.Background(), api, "shtToken", zap.NewNop())
	require.NoError(t, err)

	err = sheet.AppendRecord(context.Background(), testRecord())
	assert.ErrorIs(t, err, port.ErrStoreWrite)

	api.readErr = errors.New("forbidden")
	err = sheet.EnsureHeader(context.Background())
	assert.ErrorIs(t, err, port.ErrStoreWrite)
}

func TestNewLarkSheet_Errors(t *testing.T) {
	_, err := newLarkSheet(context.Background(), &fakeValuesAPI{}, "", zap.NewNop())
	assert.Error(t, err)

	_, err = newLarkSheet(context.Background(), &fakeValuesAPI{sheetErr: errors.New("not found")}, "shtToken", zap.NewNop())
	assert.Error(t, err)
}

func TestIsBlankRow(t *testing.T) {
	assert.True(t, isBlankRow(nil))
	assert.True(t, isBlankRow([][]interface{}{{nil, "", nil}}))
	assert.False(t, isBlankRow([][]interface{}{{nil, "Name"}}))
	assert.False(t, isBlankRow([][]interface{}{{nil, 0.0}}))
}

package sheets

import (
	"context"
	"fmt"

	"github.com/garyjia/voucher-bot/internal/application/port"
	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

// Unavailable stands in for a store whose setup failed. Every call returns
// port.ErrStoreUnavailable wrapping the setup cause.
type Unavailable struct {
	cause error
}

// NewUnavailable creates the sentinel store
func NewUnavailable(cause error) *Unavailable {
	return &Unavailable{cause: cause}
}

// Cause returns the setup error
func (u *Unavailable) Cause() error {
	return u.cause
}

func (u *Unavailable) err() error {
	if u.cause == nil {
		return port.ErrStoreUnavailable
	}
	return fmt.Errorf("%w: %w", port.ErrStoreUnavailable, u.cause)
}

// EnsureHeader always fails
func (u *Unavailable) EnsureHeader(ctx context.Context) error {
	return u.err()
}

// AppendRecord always fails
func (u *Unavailable) AppendRecord(ctx context.Context, record *conversation.VoucherRecord) error {
	return u.err()
}

var _ port.VoucherSheet = (*Unavailable)(nil)

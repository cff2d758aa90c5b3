package port

import (
	"context"
	"errors"
	"time"

	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

var (
	// ErrSessionNotFound is returned when the user has no active conversation
	ErrSessionNotFound = errors.New("session not found")

	// ErrStoreUnavailable is returned by every sheet call when setup never completed
	ErrStoreUnavailable = errors.New("voucher store unavailable")

	// ErrStoreWrite wraps any fault while reading or writing the sheet
	ErrStoreWrite = errors.New("voucher store write failed")
)

// SessionStore keeps per-user conversation scratch data.
// Sessions are disjoint by user identity.
type SessionStore interface {
	// Get returns the user's session or ErrSessionNotFound
	Get(ctx context.Context, userID string) (*conversation.Session, error)

	// Save creates or replaces the user's session
	Save(ctx context.Context, session *conversation.Session) error

	// Delete clears the user's session; deleting a missing session is not an error
	Delete(ctx context.Context, userID string) error
}

// VoucherSheet is the external tabular store receiving one row per conversation
type VoucherSheet interface {
	// EnsureHeader writes the header row only when the first row is empty
	EnsureHeader(ctx context.Context) error

	// AppendRecord appends exactly one row; a single attempt, no retry
	AppendRecord(ctx context.Context, record *conversation.VoucherRecord) error
}

// SessionPurger is implemented by stores that can drop abandoned sessions
type SessionPurger interface {
	// PurgeIdle removes sessions not updated since cutoff and returns the count
	PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

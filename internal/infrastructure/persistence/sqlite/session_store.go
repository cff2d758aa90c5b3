package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/port"
	"github.com/garyjia/voucher-bot/internal/domain/conversation"
	"github.com/garyjia/voucher-bot/pkg/database"
)

// SessionStore persists sessions in the conversation_sessions table so
// unfinished conversations survive a restart
type SessionStore struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSessionStore creates a store over an opened and migrated database
func NewSessionStore(db *database.DB, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		db:     db,
		logger: logger,
	}
}

// Get loads the user's session
func (s *SessionStore) Get(ctx context.Context, userID string) (*conversation.Session, error) {
	query := `
		SELECT user_id, conversation_id, state, name, voucher_type, amount, started_at, updated_at
		FROM conversation_sessions
		WHERE user_id = ?
	`

	var (
		session     conversation.Session
		state       string
		name        sql.NullString
		voucherType sql.NullString
		amount      sql.NullFloat64
	)

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&session.UserID,
		&session.ConversationID,
		&state,
		&name,
		&voucherType,
		&amount,
		&session.StartedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.State = conversation.State(state)
	if !session.State.IsValid() {
		return nil, fmt.Errorf("%w: stored state %q", conversation.ErrInvalidState, state)
	}
	if name.Valid {
		session.Name = &name.String
	}
	if voucherType.Valid {
		session.VoucherType = &voucherType.String
	}
	if amount.Valid {
		session.Amount = &amount.Float64
	}

	return &session, nil
}

// Save inserts or replaces the user's session
func (s *SessionStore) Save(ctx context.Context, session *conversation.Session) error {
	query := `
		INSERT INTO conversation_sessions (
			user_id, conversation_id, state, name, voucher_type, amount, started_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			conversation_id = excluded.conversation_id,
			state = excluded.state,
			name = excluded.name,
			voucher_type = excluded.voucher_type,
			amount = excluded.amount,
			started_at = excluded.started_at,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		session.UserID,
		session.ConversationID,
		session.State.String(),
		nullString(session.Name),
		nullString(session.VoucherType),
		nullFloat(session.Amount),
		session.StartedAt.UTC(),
		session.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes the user's session; a missing row is not an error
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM conversation_sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeIdle removes sessions not updated since the cutoff and returns how many went
func (s *SessionStore) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64

	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"DELETE FROM conversation_sessions WHERE updated_at < ?", cutoff.UTC())
		if err != nil {
			return fmt.Errorf("failed to purge sessions: %w", err)
		}
		purged, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	if purged > 0 {
		s.logger.Info("Purged idle sessions",
			zap.Int64("count", purged),
			zap.Time("cutoff", cutoff))
	}
	return purged, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

var (
	_ port.SessionStore  = (*SessionStore)(nil)
	_ port.SessionPurger = (*SessionStore)(nil)
)

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/garyjia/voucher-bot/internal/application/port"
	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

// SessionStore keeps sessions in process memory; they are lost on restart
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]conversation.Session
}

// NewSessionStore creates an empty in-memory session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]conversation.Session),
	}
}

// Get returns a copy of the user's session
func (s *SessionStore) Get(ctx context.Context, userID string) (*conversation.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, port.ErrSessionNotFound
	}
	return clone(&session), nil
}

// Save stores a copy of the session, replacing any previous one
func (s *SessionStore) Save(ctx context.Context, session *conversation.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.UserID] = *clone(session)
	return nil
}

// Delete removes the user's session
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

// PurgeIdle removes sessions not updated since the cutoff
func (s *SessionStore) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for userID, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, userID)
			purged++
		}
	}
	return purged, nil
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// clone copies the pointer fields so callers never share scratch data
func clone(src *conversation.Session) *conversation.Session {
	dst := *src
	if src.Name != nil {
		name := *src.Name
		dst.Name = &name
	}
	if src.VoucherType != nil {
		voucherType := *src.VoucherType
		dst.VoucherType = &voucherType
	}
	if src.Amount != nil {
		amount := *src.Amount
		dst.Amount = &amount
	}
	return &dst
}

var (
	_ port.SessionStore  = (*SessionStore)(nil)
	_ port.SessionPurger = (*SessionStore)(nil)
)

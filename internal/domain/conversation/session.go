package conversation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is the per-user scratch data for one conversation
type Session struct {
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	State          State     `json:"state"`
	Name           *string   `json:"name,omitempty"`
	VoucherType    *string   `json:"voucher_type,omitempty"`
	Amount         *float64  `json:"amount,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSession starts a fresh conversation for the user, awaiting their name
func NewSession(userID string, now time.Time) *Session {
	return &Session{
		UserID:         userID,
		ConversationID: uuid.NewString(),
		State:          StateAwaitingName,
		StartedAt:      now,
		UpdatedAt:      now,
	}
}

// SetName stores the name verbatim
func (s *Session) SetName(name string) error {
	if s.VoucherType != nil || s.Amount != nil {
		return fmt.Errorf("%w: name after later fields", ErrOutOfOrder)
	}
	s.Name = &name
	return nil
}

// SetVoucherType stores the voucher type verbatim; the name must already be set
func (s *Session) SetVoucherType(voucherType string) error {
	if s.Name == nil {
		return fmt.Errorf("%w: voucher type before name", ErrOutOfOrder)
	}
	if s.Amount != nil {
		return fmt.Errorf("%w: voucher type after amount", ErrOutOfOrder)
	}
	s.VoucherType = &voucherType
	return nil
}

// SetAmount stores the parsed amount; name and voucher type must already be set
func (s *Session) SetAmount(amount float64) error {
	if s.Name == nil || s.VoucherType == nil {
		return fmt.Errorf("%w: amount before name and voucher type", ErrOutOfOrder)
	}
	s.Amount = &amount
	return nil
}

// Record builds the row to append. All three fields must be collected.
func (s *Session) Record(now time.Time) (*VoucherRecord, error) {
	if s.Name == nil || s.VoucherType == nil || s.Amount == nil {
		return nil, fmt.Errorf("%w: record requested before all fields were collected", ErrOutOfOrder)
	}
	return &VoucherRecord{
		Timestamp:   now,
		Name:        *s.Name,
		VoucherType: *s.VoucherType,
		Amount:      *s.Amount,
	}, nil
}

// Reset clears all collected data
func (s *Session) Reset() {
	s.Name = nil
	s.VoucherType = nil
	s.Amount = nil
	s.State = StateIdle
}

// IsEmpty reports whether no field has been collected yet
func (s *Session) IsEmpty() bool {
	return s.Name == nil && s.VoucherType == nil && s.Amount == nil
}

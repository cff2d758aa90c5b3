package port

import (
	"context"
	"time"

	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

// Messenger delivers replies to a user on the messaging platform
type Messenger interface {
	Send(ctx context.Context, userID string, reply conversation.Reply) error
}

// Clock abstracts the time source used for record timestamps
type Clock interface {
	Now() time.Time
}

// SystemClock returns server-local wall time
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time {
	return time.Now()
}

package conversation

import (
	"context"

	domainconv "github.com/garyjia/voucher-bot/internal/domain/conversation"
	"github.com/garyjia/voucher-bot/internal/domain/event"
)

// Inbound is one text message from a user
type Inbound struct {
	UserID string
	Text   string
	// CorrelationID links emitted events to the inbound message event
	CorrelationID string
}

// Outcome describes what a single message did to the conversation
type Outcome struct {
	From    domainconv.State
	To      domainconv.State
	Action  domainconv.Action
	Replies []domainconv.Reply

	// Record is set once a numeric amount was accepted
	Record *domainconv.VoucherRecord
	// Appended is true only when the store accepted the row
	Appended bool
	// Ignored is true when the message had no effect (no replies, no state change)
	Ignored bool
}

// Engine runs the voucher conversation for every user
type Engine interface {
	// Handle processes one inbound message and returns the replies to send
	Handle(ctx context.Context, in Inbound) (*Outcome, error)

	// CurrentState returns the user's state without changing it
	CurrentState(ctx context.Context, userID string) (domainconv.State, error)
}

// Publisher receives the engine's domain events
type Publisher interface {
	DispatchAsync(ctx context.Context, evt *event.Event)
}

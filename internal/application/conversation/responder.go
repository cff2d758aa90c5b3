package conversation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/dispatcher"
	"github.com/garyjia/voucher-bot/internal/application/port"
	"github.com/garyjia/voucher-bot/internal/domain/event"
)

// Responder connects inbound message events to the engine and sends the replies
type Responder struct {
	engine    Engine
	messenger port.Messenger
	logger    *zap.Logger
}

// NewResponder creates a responder
func NewResponder(engine Engine, messenger port.Messenger, logger *zap.Logger) *Responder {
	return &Responder{
		engine:    engine,
		messenger: messenger,
		logger:    logger,
	}
}

// Register subscribes the responder to inbound messages
func (r *Responder) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeMessageReceived, "conversation-responder", r.HandleMessage)
}

// HandleMessage runs one message.received event through the engine
func (r *Responder) HandleMessage(ctx context.Context, evt *event.Event) error {
	if evt.UserID == "" {
		return fmt.Errorf("message event %s has no user", evt.ID)
	}

	outcome, err := r.engine.Handle(ctx, Inbound{
		UserID:        evt.UserID,
		Text:          evt.GetPayloadString(event.PayloadText),
		CorrelationID: evt.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to handle message: %w", err)
	}

	if outcome.Ignored {
		return nil
	}

	for _, reply := range outcome.Replies {
		if err := r.messenger.Send(ctx, evt.UserID, reply); err != nil {
			r.logger.Error("Failed to send reply",
				zap.String("user_id", evt.UserID),
				zap.String("action", outcome.Action.String()),
				zap.Error(err))
			return fmt.Errorf("failed to send reply: %w", err)
		}
	}

	r.logger.Debug("Message handled",
		zap.String("user_id", evt.UserID),
		zap.String("from", outcome.From.String()),
		zap.String("to", outcome.To.String()),
		zap.Int("replies", len(outcome.Replies)))

	return nil
}

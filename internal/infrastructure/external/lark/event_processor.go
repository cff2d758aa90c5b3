package lark

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	larkdispatcher "github.com/larksuite/oapi-sdk-go/v3/event/dispatcher"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/domain/event"
)

const recentMessageCapacity = 1024

// Publisher receives the translated domain events
type Publisher interface {
	Dispatch(ctx context.Context, evt *event.Event) error
}

// InboundMessage is a text message extracted from a Lark event
type InboundMessage struct {
	MessageID string
	ChatID    string
	ChatType  string
	OpenID    string
	Text      string
}

// EventProcessor turns Lark im.message.receive_v1 events into message.received
// domain events. Lark redelivers events that were not acknowledged in time, so
// message IDs already seen are dropped.
type EventProcessor struct {
	publisher Publisher
	logger    *zap.Logger

	mu     sync.Mutex
	seen   map[string]struct{}
	order  []string
	cursor int
}

// NewEventProcessor creates a new EventProcessor
func NewEventProcessor(publisher Publisher, logger *zap.Logger) *EventProcessor {
	return &EventProcessor{
		publisher: publisher,
		logger:    logger,
		seen:      make(map[string]struct{}, recentMessageCapacity),
		order:     make([]string, recentMessageCapacity),
	}
}

// EventDispatcher builds the SDK dispatcher with the message handler registered.
// Websocket mode passes empty token and key.
func (p *EventProcessor) EventDispatcher(verificationToken, encryptKey string) *larkdispatcher.EventDispatcher {
	return larkdispatcher.NewEventDispatcher(verificationToken, encryptKey).
		OnP2MessageReceiveV1(p.HandleMessageReceive)
}

// HandleMessageReceive processes one message receive event
func (p *EventProcessor) HandleMessageReceive(ctx context.Context, evt *larkim.P2MessageReceiveV1) error {
	msg, ok := ExtractMessage(evt)
	if !ok {
		p.logger.Debug("Ignoring non-text or non-user message")
		return nil
	}

	if p.markSeen(msg.MessageID) {
		p.logger.Info("Dropping redelivered message", zap.String("message_id", msg.MessageID))
		return nil
	}

	domainEvent := event.NewEvent(event.TypeMessageReceived, msg.OpenID, "", map[string]interface{}{
		event.PayloadText:      msg.Text,
		event.PayloadMessageID: msg.MessageID,
		event.PayloadChatID:    msg.ChatID,
		event.PayloadKind:      msg.ChatType,
	})

	if err := p.publisher.Dispatch(ctx, domainEvent); err != nil {
		p.logger.Error("Failed to dispatch message event",
			zap.String("message_id", msg.MessageID),
			zap.String("user_id", msg.OpenID),
			zap.Error(err))
		return fmt.Errorf("failed to dispatch event: %w", err)
	}

	return nil
}

// markSeen records the ID and reports whether it was already present
func (p *EventProcessor) markSeen(messageID string) bool {
	if messageID == "" {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dup := p.seen[messageID]; dup {
		return true
	}

	if evicted := p.order[p.cursor]; evicted != "" {
		delete(p.seen, evicted)
	}
	p.order[p.cursor] = messageID
	p.cursor = (p.cursor + 1) % len(p.order)
	p.seen[messageID] = struct{}{}
	return false
}

// ExtractMessage pulls the sender and text out of a receive event. Only
// text messages sent by users are accepted. Mention placeholders such as
// "@_user_1" are removed and the remainder trimmed; text without mentions
// is returned verbatim.
func ExtractMessage(evt *larkim.P2MessageReceiveV1) (InboundMessage, bool) {
	if evt == nil || evt.Event == nil || evt.Event.Message == nil || evt.Event.Sender == nil {
		return InboundMessage{}, false
	}

	sender := evt.Event.Sender
	if sender.SenderType != nil && *sender.SenderType != "user" {
		return InboundMessage{}, false
	}
	if sender.SenderId == nil || deref(sender.SenderId.OpenId) == "" {
		return InboundMessage{}, false
	}

	message := evt.Event.Message
	if deref(message.MessageType) != "text" || message.Content == nil {
		return InboundMessage{}, false
	}

	var content struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(*message.Content), &content); err != nil {
		return InboundMessage{}, false
	}

	text := content.Text
	if len(message.Mentions) > 0 {
		for _, mention := range message.Mentions {
			if key := deref(mention.Key); key != "" {
				text = strings.ReplaceAll(text, key, "")
			}
		}
		text = strings.TrimSpace(text)
	}

	return InboundMessage{
		MessageID: deref(message.MessageId),
		ChatID:    deref(message.ChatId),
		ChatType:  deref(message.ChatType),
		OpenID:    *sender.SenderId.OpenId,
		Text:      text,
	}, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

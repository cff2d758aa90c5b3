package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/port"
	domainconv "github.com/garyjia/voucher-bot/internal/domain/conversation"
	"github.com/garyjia/voucher-bot/internal/domain/event"
	"github.com/garyjia/voucher-bot/internal/messages"
)

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	table    *domainconv.Table
	sessions port.SessionStore
	sheet    port.VoucherSheet
	catalog  *messages.Catalog

	publisher     Publisher
	clock         port.Clock
	appendTimeout time.Duration
	locks         *userLocks
	logger        *zap.Logger
}

// EngineOption configures the conversation engine
type EngineOption func(*engineImpl)

// WithPublisher sets where conversation events are emitted
func WithPublisher(p Publisher) EngineOption {
	return func(e *engineImpl) {
		e.publisher = p
	}
}

// WithClock overrides the record timestamp source
func WithClock(c port.Clock) EngineOption {
	return func(e *engineImpl) {
		e.clock = c
	}
}

// WithAppendTimeout bounds the store append; zero means no bound
func WithAppendTimeout(d time.Duration) EngineOption {
	return func(e *engineImpl) {
		e.appendTimeout = d
	}
}

// WithTable replaces the default dispatch table
func WithTable(t *domainconv.Table) EngineOption {
	return func(e *engineImpl) {
		e.table = t
	}
}

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *engineImpl) {
		e.logger = logger
	}
}

// NewEngine creates the conversation engine. A nil sheet behaves like an
// unavailable store.
func NewEngine(
	sessions port.SessionStore,
	sheet port.VoucherSheet,
	catalog *messages.Catalog,
	opts ...EngineOption,
) Engine {
	e := &engineImpl{
		table:    domainconv.DefaultTable(),
		sessions: sessions,
		sheet:    sheet,
		catalog:  catalog,
		clock:    port.SystemClock{},
		locks:    newUserLocks(),
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Handle processes one inbound message
func (e *engineImpl) Handle(ctx context.Context, in Inbound) (*Outcome, error) {
	cmd := domainconv.ParseCommand(in.Text)

	unlock := e.locks.Lock(in.UserID)
	defer unlock()

	session, err := e.load(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	state := domainconv.StateIdle
	if session != nil {
		state = session.State
	}

	if cmd == domainconv.CommandHelp {
		return &Outcome{
			From:    state,
			To:      state,
			Replies: []domainconv.Reply{domainconv.TextReply(e.catalog.Help())},
		}, nil
	}

	trigger, routable := cmd.Trigger()
	if !routable {
		e.logger.Debug("Ignoring unknown command",
			zap.String("user_id", in.UserID),
			zap.String("state", state.String()))
		return ignored(state), nil
	}

	tr, err := e.table.Resolve(ctx, state, domainconv.Event{Trigger: trigger, Text: in.Text})
	if err != nil {
		if errors.Is(err, domainconv.ErrInvalidTransition) {
			e.logger.Debug("Message has no transition in current state",
				zap.String("user_id", in.UserID),
				zap.String("state", state.String()),
				zap.String("trigger", trigger.String()))
			return ignored(state), nil
		}
		return nil, fmt.Errorf("failed to resolve transition: %w", err)
	}

	outcome := &Outcome{From: tr.From, To: tr.To, Action: tr.Action}

	switch tr.Action {
	case domainconv.ActionBegin:
		err = e.begin(ctx, in, outcome)
	case domainconv.ActionCaptureName:
		err = e.captureName(ctx, in, session, outcome)
	case domainconv.ActionCaptureVoucherType:
		err = e.captureVoucherType(ctx, in, session, outcome)
	case domainconv.ActionRejectAmount:
		e.rejectAmount(ctx, in, session, outcome)
	case domainconv.ActionSubmit:
		err = e.submit(ctx, in, session, outcome)
	case domainconv.ActionCancel:
		e.cancel(ctx, in, session, outcome)
	default:
		err = fmt.Errorf("%w: unhandled action %s", domainconv.ErrInvalidTransition, tr.Action)
	}
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// CurrentState returns IDLE when the user has no session
func (e *engineImpl) CurrentState(ctx context.Context, userID string) (domainconv.State, error) {
	session, err := e.load(ctx, userID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return domainconv.StateIdle, nil
	}
	return session.State, nil
}

func (e *engineImpl) begin(ctx context.Context, in Inbound, outcome *Outcome) error {
	session := domainconv.NewSession(in.UserID, e.clock.Now())
	if err := e.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	e.logger.Info("Conversation started",
		zap.String("user_id", in.UserID),
		zap.String("conversation_id", session.ConversationID),
		zap.String("previous_state", outcome.From.String()))

	outcome.Replies = []domainconv.Reply{domainconv.TextReply(e.catalog.Welcome())}
	e.publish(ctx, event.TypeConversationStarted, in, session, nil)
	return nil
}

func (e *engineImpl) captureName(ctx context.Context, in Inbound, session *domainconv.Session, outcome *Outcome) error {
	if err := session.SetName(in.Text); err != nil {
		return err
	}
	if err := e.advance(ctx, session, outcome.To); err != nil {
		return err
	}

	outcome.Replies = []domainconv.Reply{
		domainconv.SuggestionReply(e.catalog.AskVoucherType(in.Text), domainconv.VoucherSuggestions()),
	}
	return nil
}

func (e *engineImpl) captureVoucherType(ctx context.Context, in Inbound, session *domainconv.Session, outcome *Outcome) error {
	if err := session.SetVoucherType(in.Text); err != nil {
		return err
	}
	if err := e.advance(ctx, session, outcome.To); err != nil {
		return err
	}

	outcome.Replies = []domainconv.Reply{domainconv.RemoveKeyboardReply(e.catalog.AskAmount())}
	return nil
}

// rejectAmount re-prompts without touching the session
func (e *engineImpl) rejectAmount(ctx context.Context, in Inbound, session *domainconv.Session, outcome *Outcome) {
	outcome.Replies = []domainconv.Reply{domainconv.TextReply(e.catalog.InvalidAmount())}
	e.publish(ctx, event.TypeAmountRejected, in, session, nil)
}

func (e *engineImpl) submit(ctx context.Context, in Inbound, session *domainconv.Session, outcome *Outcome) error {
	amount, err := domainconv.ParseAmount(in.Text)
	if err != nil {
		return err
	}
	if err := session.SetAmount(amount); err != nil {
		return err
	}

	record, err := session.Record(e.clock.Now())
	if err != nil {
		return err
	}
	outcome.Record = record

	appendErr := e.appendRecord(ctx, record)

	// the session ends whatever the store said
	e.clear(ctx, session)

	switch {
	case appendErr == nil:
		outcome.Appended = true
		outcome.Replies = []domainconv.Reply{domainconv.TextReply(e.catalog.Saved(record))}
		e.logger.Info("Voucher recorded",
			zap.String("user_id", in.UserID),
			zap.String("conversation_id", session.ConversationID),
			zap.String("voucher_type", record.VoucherType),
			zap.Float64("amount", record.Amount))
		e.publish(ctx, event.TypeVoucherRecorded, in, session, map[string]interface{}{
			event.PayloadAmount: record.Amount,
		})

	case errors.Is(appendErr, port.ErrStoreUnavailable):
		outcome.Replies = []domainconv.Reply{domainconv.TextReply(e.catalog.NotConfigured())}
		e.logger.Warn("Voucher not recorded, store unavailable",
			zap.String("user_id", in.UserID),
			zap.String("conversation_id", session.ConversationID),
			zap.Error(appendErr))
		e.publish(ctx, event.TypeVoucherAppendFailed, in, session, map[string]interface{}{
			event.PayloadReason: "unavailable",
		})

	default:
		outcome.Replies = []domainconv.Reply{domainconv.TextReply(e.catalog.SaveFailed())}
		e.logger.Error("Failed to append voucher record",
			zap.String("user_id", in.UserID),
			zap.String("conversation_id", session.ConversationID),
			zap.Error(appendErr))
		e.publish(ctx, event.TypeVoucherAppendFailed, in, session, map[string]interface{}{
			event.PayloadReason: "write_error",
		})
	}

	e.publish(ctx, event.TypeConversationCompleted, in, session, nil)
	return nil
}

func (e *engineImpl) cancel(ctx context.Context, in Inbound, session *domainconv.Session, outcome *Outcome) {
	e.clear(ctx, session)

	e.logger.Info("Conversation cancelled",
		zap.String("user_id", in.UserID),
		zap.String("conversation_id", session.ConversationID),
		zap.String("state", outcome.From.String()))

	outcome.Replies = []domainconv.Reply{domainconv.RemoveKeyboardReply(e.catalog.Cancelled())}
	e.publish(ctx, event.TypeConversationCancelled, in, session, nil)
}

func (e *engineImpl) appendRecord(ctx context.Context, record *domainconv.VoucherRecord) error {
	if e.sheet == nil {
		return port.ErrStoreUnavailable
	}

	if e.appendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.appendTimeout)
		defer cancel()
	}

	return e.sheet.AppendRecord(ctx, record)
}

func (e *engineImpl) advance(ctx context.Context, session *domainconv.Session, to domainconv.State) error {
	session.State = to
	session.UpdatedAt = e.clock.Now()
	if err := e.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// clear wipes the scratch data and removes the session from the store.
// When the delete fails the session is parked in TERMINAL so a repeated
// amount cannot be submitted again.
func (e *engineImpl) clear(ctx context.Context, session *domainconv.Session) {
	session.Reset()
	err := e.sessions.Delete(ctx, session.UserID)
	if err == nil {
		return
	}
	e.logger.Error("Failed to delete session",
		zap.String("user_id", session.UserID),
		zap.String("conversation_id", session.ConversationID),
		zap.Error(err))

	session.State = domainconv.StateTerminal
	session.UpdatedAt = e.clock.Now()
	if err := e.sessions.Save(ctx, session); err != nil {
		e.logger.Error("Failed to park session in terminal state",
			zap.String("user_id", session.UserID),
			zap.String("conversation_id", session.ConversationID),
			zap.Error(err))
	}
}

func (e *engineImpl) load(ctx context.Context, userID string) (*domainconv.Session, error) {
	session, err := e.sessions.Get(ctx, userID)
	if errors.Is(err, port.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (e *engineImpl) publish(ctx context.Context, eventType event.Type, in Inbound, session *domainconv.Session, payload map[string]interface{}) {
	if e.publisher == nil {
		return
	}

	conversationID := ""
	if session != nil {
		conversationID = session.ConversationID
	}

	correlationID := in.CorrelationID
	if correlationID == "" {
		correlationID = conversationID
	}

	evt := event.NewEventWithCorrelation(eventType, in.UserID, conversationID, payload, correlationID)
	e.publisher.DispatchAsync(context.WithoutCancel(ctx), evt)
}

func ignored(state domainconv.State) *Outcome {
	return &Outcome{From: state, To: state, Ignored: true}
}

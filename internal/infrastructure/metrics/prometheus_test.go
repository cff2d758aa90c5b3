package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/voucher-bot/internal/application/dispatcher"
	"github.com/garyjia/voucher-bot/internal/domain/event"
)

func newEvent(t event.Type, payload map[string]interface{}) *event.Event {
	return event.NewEvent(t, "ou_alice", "conv-1", payload)
}

func TestRecorder_Observe(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	events := []*event.Event{
		newEvent(event.TypeMessageReceived, map[string]interface{}{event.PayloadText: "/start"}),
		newEvent(event.TypeMessageReceived, map[string]interface{}{event.PayloadText: "Alice"}),
		newEvent(event.TypeMessageReceived, map[string]interface{}{event.PayloadText: "/foo"}),
		newEvent(event.TypeConversationStarted, nil),
		newEvent(event.TypeAmountRejected, nil),
		newEvent(event.TypeAmountRejected, nil),
		newEvent(event.TypeVoucherRecorded, map[string]interface{}{event.PayloadAmount: 25.5}),
		newEvent(event.TypeVoucherAppendFailed, map[string]interface{}{event.PayloadReason: "unavailable"}),
		newEvent(event.TypeConversationCompleted, nil),
		newEvent(event.TypeConversationCompleted, nil),
		newEvent(event.TypeConversationCancelled, nil),
	}
	for _, evt := range events {
		require.NoError(t, r.Observe(ctx, evt))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(r.messagesTotal.WithLabelValues("command")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.messagesTotal.WithLabelValues("text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.conversationsTotal.WithLabelValues("started")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.conversationsTotal.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.conversationsTotal.WithLabelValues("cancelled")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.amountRejectionsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.appendsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.appendsTotal.WithLabelValues("unavailable")))
}

func TestRecorder_RegisterOnDispatcher(t *testing.T) {
	r := NewRecorder()
	d := dispatcher.NewDispatcher()
	defer d.Close()
	r.Register(d)

	require.NoError(t, d.Dispatch(context.Background(), newEvent(event.TypeConversationStarted, nil)))
	require.NoError(t, d.Dispatch(context.Background(), newEvent(event.TypeVoucherAppendFailed, nil)))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.conversationsTotal.WithLabelValues("started")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.appendsTotal.WithLabelValues("error")))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.Observe(context.Background(), newEvent(event.TypeConversationStarted, nil)))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "voucher_bot_conversations_total"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

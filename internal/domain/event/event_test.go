package event

import (
	"testing"
	"time"
)

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{"message received", TypeMessageReceived, true},
		{"conversation started", TypeConversationStarted, true},
		{"conversation completed", TypeConversationCompleted, true},
		{"conversation cancelled", TypeConversationCancelled, true},
		{"amount rejected", TypeAmountRejected, true},
		{"voucher recorded", TypeVoucherRecorded, true},
		{"voucher append failed", TypeVoucherAppendFailed, true},
		{"unknown", Type("instance.created"), false},
		{"empty", Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	before := time.Now()
	evt := NewEvent(TypeMessageReceived, "ou_1", "", map[string]interface{}{PayloadText: "hi"})
	after := time.Now()

	if evt.ID == "" {
		t.Error("NewEvent() should generate an ID")
	}
	if evt.CorrelationID != evt.ID {
		t.Errorf("CorrelationID = %q, want event ID %q", evt.CorrelationID, evt.ID)
	}
	if evt.Timestamp.Before(before) || evt.Timestamp.After(after) {
		t.Errorf("Timestamp %v outside [%v, %v]", evt.Timestamp, before, after)
	}
	if got := evt.GetPayloadString(PayloadText); got != "hi" {
		t.Errorf("GetPayloadString() = %q, want %q", got, "hi")
	}

	other := NewEvent(TypeMessageReceived, "ou_1", "", nil)
	if other.ID == evt.ID {
		t.Error("NewEvent() should generate unique IDs")
	}
}

func TestNewEventWithCorrelation(t *testing.T) {
	evt := NewEventWithCorrelation(TypeVoucherRecorded, "ou_1", "conv-1", nil, "corr-1")

	if evt.CorrelationID != "corr-1" {
		t.Errorf("CorrelationID = %q, want %q", evt.CorrelationID, "corr-1")
	}
	if evt.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, want %q", evt.ConversationID, "conv-1")
	}
}

func TestEvent_WithPayload(t *testing.T) {
	original := NewEvent(TypeVoucherRecorded, "ou_1", "conv-1", map[string]interface{}{PayloadAmount: 25.5})

	updated := original.WithPayload(PayloadReason, "ok")

	if original.HasPayload(PayloadReason) {
		t.Error("WithPayload() must not modify the original event")
	}
	if got := updated.GetPayloadString(PayloadReason); got != "ok" {
		t.Errorf("updated payload reason = %q, want %q", got, "ok")
	}
	if got := updated.GetPayloadFloat(PayloadAmount); got != 25.5 {
		t.Errorf("updated payload amount = %v, want 25.5", got)
	}
	if updated.ID != original.ID {
		t.Error("WithPayload() should keep the event ID")
	}
}

func TestEvent_PayloadGettersMissingKeys(t *testing.T) {
	evt := NewEvent(TypeAmountRejected, "ou_1", "", map[string]interface{}{PayloadAmount: "not a number", "count": 3})

	if got := evt.GetPayloadString("missing"); got != "" {
		t.Errorf("GetPayloadString(missing) = %q, want empty", got)
	}
	if got := evt.GetPayloadFloat(PayloadAmount); got != 0 {
		t.Errorf("GetPayloadFloat(wrong type) = %v, want 0", got)
	}
	if got := evt.GetPayloadFloat("count"); got != 3 {
		t.Errorf("GetPayloadFloat(int) = %v, want 3", got)
	}
}

package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event
type Event struct {
	ID             string                 `json:"id"`
	Type           Type                   `json:"type"`
	UserID         string                 `json:"user_id"`
	ConversationID string                 `json:"conversation_id,omitempty"`
	Payload        map[string]interface{} `json:"payload"`
	Timestamp      time.Time              `json:"timestamp"`
	CorrelationID  string                 `json:"correlation_id"`
}

// NewEvent creates a new domain event with auto-generated ID and timestamp
func NewEvent(eventType Type, userID, conversationID string, payload map[string]interface{}) *Event {
	id := uuid.NewString()
	return &Event{
		ID:             id,
		Type:           eventType,
		UserID:         userID,
		ConversationID: conversationID,
		Payload:        payload,
		Timestamp:      time.Now(),
		CorrelationID:  id,
	}
}

// NewEventWithCorrelation creates an event linked to a correlation chain,
// typically the inbound message that caused it
func NewEventWithCorrelation(eventType Type, userID, conversationID string, payload map[string]interface{}, correlationID string) *Event {
	evt := NewEvent(eventType, userID, conversationID, payload)
	evt.CorrelationID = correlationID
	return evt
}

// WithPayload returns a new Event with an added payload key-value pair (immutable operation)
func (e *Event) WithPayload(key string, value interface{}) *Event {
	newPayload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	clone := *e
	clone.Payload = newPayload
	return &clone
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadFloat retrieves a float64 value from the payload
func (e *Event) GetPayloadFloat(key string) float64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		case int:
			return float64(v)
		}
	}
	return 0.0
}

// HasPayload reports whether the key is present
func (e *Event) HasPayload(key string) bool {
	_, ok := e.Payload[key]
	return ok
}

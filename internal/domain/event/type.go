package event

// Type identifies the type of domain event
type Type string

const (
	TypeMessageReceived       Type = "message.received"
	TypeConversationStarted   Type = "conversation.started"
	TypeConversationCompleted Type = "conversation.completed"
	TypeConversationCancelled Type = "conversation.cancelled"
	TypeAmountRejected        Type = "amount.rejected"
	TypeVoucherRecorded       Type = "voucher.recorded"
	TypeVoucherAppendFailed   Type = "voucher.append_failed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeMessageReceived,
		TypeConversationStarted,
		TypeConversationCompleted,
		TypeConversationCancelled,
		TypeAmountRejected,
		TypeVoucherRecorded,
		TypeVoucherAppendFailed:
		return true
	default:
		return false
	}
}

// Payload keys shared by publishers and subscribers
const (
	PayloadText      = "text"
	PayloadMessageID = "message_id"
	PayloadChatID    = "chat_id"
	PayloadState     = "state"
	PayloadAmount    = "amount"
	PayloadReason    = "reason"
	PayloadKind      = "kind"
)

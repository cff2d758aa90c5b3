package conversation

// Trigger represents the kind of inbound message that can cause a transition
type Trigger string

const (
	TriggerStart  Trigger = "START"
	TriggerCancel Trigger = "CANCEL"
	TriggerText   Trigger = "TEXT"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

// Action names the side effect the engine performs when a transition fires
type Action string

const (
	ActionBegin              Action = "BEGIN"
	ActionCaptureName        Action = "CAPTURE_NAME"
	ActionCaptureVoucherType Action = "CAPTURE_VOUCHER_TYPE"
	ActionSubmit             Action = "SUBMIT"
	ActionRejectAmount       Action = "REJECT_AMOUNT"
	ActionCancel             Action = "CANCEL"
)

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// Event is a single classified inbound message fed to the dispatch table
type Event struct {
	Trigger Trigger
	Text    string
}

package conversation

// State represents where a user is in the voucher conversation
type State string

const (
	// StateIdle means no session exists for the user
	StateIdle                State = "IDLE"
	StateAwaitingName        State = "AWAITING_NAME"
	StateAwaitingVoucherType State = "AWAITING_VOUCHER_TYPE"
	StateAwaitingAmount      State = "AWAITING_AMOUNT"
	StateTerminal            State = "TERMINAL"
)

var validStates = map[State]bool{
	StateIdle:                true,
	StateAwaitingName:        true,
	StateAwaitingVoucherType: true,
	StateAwaitingAmount:      true,
	StateTerminal:            true,
}

var collectingStates = map[State]bool{
	StateAwaitingName:        true,
	StateAwaitingVoucherType: true,
	StateAwaitingAmount:      true,
}

// IsTerminal returns true if the conversation has finished (completed, failed or cancelled)
func (s State) IsTerminal() bool {
	return s == StateTerminal
}

// IsCollecting returns true while the conversation is waiting for a field
func (s State) IsCollecting() bool {
	return collectingStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known conversation state
func (s State) IsValid() bool {
	return validStates[s]
}

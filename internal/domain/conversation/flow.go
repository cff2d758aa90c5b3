package conversation

import "context"

// amountIsValid guards the AwaitingAmount -> Terminal transition
func amountIsValid(_ context.Context, evt Event) bool {
	_, err := ParseAmount(evt.Text)
	return err == nil
}

func amountIsInvalid(ctx context.Context, evt Event) bool {
	return !amountIsValid(ctx, evt)
}

// DefaultTable returns the voucher collection flow:
//
//	any state      --START-->  AwaitingName
//	AwaitingName   --TEXT-->   AwaitingVoucherType
//	AwaitingType   --TEXT-->   AwaitingAmount
//	AwaitingAmount --TEXT-->   Terminal (numeric) | AwaitingAmount (retry)
//	collecting     --CANCEL--> Terminal
func DefaultTable() *Table {
	b := NewBuilder()

	for state := range validStates {
		b.Configure(state).Permit(TriggerStart, StateAwaitingName, ActionBegin)
	}

	b.Configure(StateAwaitingName).
		Permit(TriggerText, StateAwaitingVoucherType, ActionCaptureName).
		Permit(TriggerCancel, StateTerminal, ActionCancel)

	b.Configure(StateAwaitingVoucherType).
		Permit(TriggerText, StateAwaitingAmount, ActionCaptureVoucherType).
		Permit(TriggerCancel, StateTerminal, ActionCancel)

	b.Configure(StateAwaitingAmount).
		PermitIf(TriggerText, StateTerminal, ActionSubmit, amountIsValid).
		PermitIf(TriggerText, StateAwaitingAmount, ActionRejectAmount, amountIsInvalid).
		Permit(TriggerCancel, StateTerminal, ActionCancel)

	return b.Build()
}

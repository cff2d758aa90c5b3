package conversation

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateIdle, false},
		{StateAwaitingName, false},
		{StateAwaitingVoucherType, false},
		{StateAwaitingAmount, false},
		{StateTerminal, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsCollecting(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateIdle, false},
		{StateAwaitingName, true},
		{StateAwaitingVoucherType, true},
		{StateAwaitingAmount, true},
		{StateTerminal, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsCollecting(); got != tt.expected {
				t.Errorf("State.IsCollecting() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"valid state", StateIdle, true},
		{"valid state", StateTerminal, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("INVALID"))
}

func TestBuilder_PermitPanicsOnInvalidTarget(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid target state")
		}
	}()

	builder.Configure(StateIdle).Permit(TriggerStart, State("NOWHERE"), ActionBegin)
}

func TestBuilder_ConfigureReturnsSameConfig(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(StateIdle)
	config2 := builder.Configure(StateIdle)
	if config != config2 {
		t.Error("Configure() should return same config for same state")
	}
}

func TestTable_ImmutableAfterBuild(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateIdle).Permit(TriggerStart, StateAwaitingName, ActionBegin)

	table := builder.Build()

	builder.Configure(StateIdle).Permit(TriggerText, StateTerminal, ActionSubmit)

	if table.CanFire(StateIdle, TriggerText) {
		t.Error("table should not see transitions configured after Build()")
	}
	if !table.CanFire(StateIdle, TriggerStart) {
		t.Error("table should keep transitions configured before Build()")
	}
}

func TestTable_ResolveInvalidTransition(t *testing.T) {
	table := DefaultTable()

	_, err := table.Resolve(context.Background(), StateIdle, Event{Trigger: TriggerText, Text: "hello"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Resolve() error = %v, want %v", err, ErrInvalidTransition)
	}
}

func TestTable_ResolveInvalidState(t *testing.T) {
	table := DefaultTable()

	_, err := table.Resolve(context.Background(), State("BOGUS"), Event{Trigger: TriggerStart})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Resolve() error = %v, want %v", err, ErrInvalidState)
	}
}

func TestTable_GuardFailed(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateAwaitingAmount).
		PermitIf(TriggerText, StateTerminal, ActionSubmit, func(ctx context.Context, evt Event) bool {
			return false
		})

	_, err := builder.Build().Resolve(context.Background(), StateAwaitingAmount, Event{Trigger: TriggerText})
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Resolve() error = %v, want %v", err, ErrGuardFailed)
	}
}

func TestDefaultTable_Transitions(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name       string
		from       State
		evt        Event
		wantTo     State
		wantAction Action
	}{
		{"start from idle", StateIdle, Event{Trigger: TriggerStart}, StateAwaitingName, ActionBegin},
		{"start from terminal", StateTerminal, Event{Trigger: TriggerStart}, StateAwaitingName, ActionBegin},
		{"restart mid conversation", StateAwaitingAmount, Event{Trigger: TriggerStart}, StateAwaitingName, ActionBegin},
		{"name", StateAwaitingName, Event{Trigger: TriggerText, Text: "Alice"}, StateAwaitingVoucherType, ActionCaptureName},
		{"empty name accepted", StateAwaitingName, Event{Trigger: TriggerText, Text: ""}, StateAwaitingVoucherType, ActionCaptureName},
		{"voucher type", StateAwaitingVoucherType, Event{Trigger: TriggerText, Text: "Netflix"}, StateAwaitingAmount, ActionCaptureVoucherType},
		{"numeric amount", StateAwaitingAmount, Event{Trigger: TriggerText, Text: "25.5"}, StateTerminal, ActionSubmit},
		{"integer amount", StateAwaitingAmount, Event{Trigger: TriggerText, Text: "50"}, StateTerminal, ActionSubmit},
		{"word amount retries", StateAwaitingAmount, Event{Trigger: TriggerText, Text: "fifty"}, StateAwaitingAmount, ActionRejectAmount},
		{"empty amount retries", StateAwaitingAmount, Event{Trigger: TriggerText, Text: ""}, StateAwaitingAmount, ActionRejectAmount},
		{"cancel name", StateAwaitingName, Event{Trigger: TriggerCancel}, StateTerminal, ActionCancel},
		{"cancel type", StateAwaitingVoucherType, Event{Trigger: TriggerCancel}, StateTerminal, ActionCancel},
		{"cancel amount", StateAwaitingAmount, Event{Trigger: TriggerCancel}, StateTerminal, ActionCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := table.Resolve(context.Background(), tt.from, tt.evt)
			if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			if tr.To != tt.wantTo {
				t.Errorf("To = %v, want %v", tr.To, tt.wantTo)
			}
			if tr.Action != tt.wantAction {
				t.Errorf("Action = %v, want %v", tr.Action, tt.wantAction)
			}
			if tr.From != tt.from {
				t.Errorf("From = %v, want %v", tr.From, tt.from)
			}
		})
	}
}

func TestDefaultTable_CancelNotPermittedWhenIdle(t *testing.T) {
	table := DefaultTable()

	for _, state := range []State{StateIdle, StateTerminal} {
		if table.CanFire(state, TriggerCancel) {
			t.Errorf("CanFire(%s, CANCEL) = true, want false", state)
		}
	}
}

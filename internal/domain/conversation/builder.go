package conversation

import (
	"context"
	"fmt"
)

// GuardFunc decides whether a transition may fire for the given event
type GuardFunc func(ctx context.Context, evt Event) bool

// TableBuilder builds an immutable dispatch table
type TableBuilder interface {
	// Configure returns the transition configuration for the given state
	Configure(state State) StateConfiguration

	// Build freezes the configured transitions into a Table
	Build() *Table
}

// StateConfiguration configures transitions out of a specific state
type StateConfiguration interface {
	// Permit maps a trigger to an action and target state
	Permit(trigger Trigger, toState State, action Action) StateConfiguration

	// PermitIf maps a trigger to an action and target state when the guard passes.
	// Guarded transitions for the same trigger are tried in registration order.
	PermitIf(trigger Trigger, toState State, action Action, guard GuardFunc) StateConfiguration
}

// Transition is one resolved row of the dispatch table
type Transition struct {
	From    State
	To      State
	Trigger Trigger
	Action  Action
	guard   GuardFunc
}

type stateConfig struct {
	fromState   State
	transitions map[Trigger][]Transition
}

type tableBuilder struct {
	configurations map[State]*stateConfig
}

// NewBuilder creates a new dispatch table builder
func NewBuilder() TableBuilder {
	return &tableBuilder{
		configurations: make(map[State]*stateConfig),
	}
}

// Configure returns a state configuration for the given state
func (b *tableBuilder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	config, exists := b.configurations[state]
	if !exists {
		config = &stateConfig{
			fromState:   state,
			transitions: make(map[Trigger][]Transition),
		}
		b.configurations[state] = config
	}

	return config
}

// Build copies the configured transitions so later Configure calls cannot change the table
func (b *tableBuilder) Build() *Table {
	rows := make(map[State]map[Trigger][]Transition, len(b.configurations))
	for state, config := range b.configurations {
		byTrigger := make(map[Trigger][]Transition, len(config.transitions))
		for trigger, transitions := range config.transitions {
			byTrigger[trigger] = append([]Transition{}, transitions...)
		}
		rows[state] = byTrigger
	}

	return &Table{rows: rows}
}

// Permit maps a trigger to an action and target state
func (c *stateConfig) Permit(trigger Trigger, toState State, action Action) StateConfiguration {
	return c.PermitIf(trigger, toState, action, nil)
}

// PermitIf maps a trigger to an action and target state when the guard passes
func (c *stateConfig) PermitIf(trigger Trigger, toState State, action Action, guard GuardFunc) StateConfiguration {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}

	c.transitions[trigger] = append(c.transitions[trigger], Transition{
		From:    c.fromState,
		To:      toState,
		Trigger: trigger,
		Action:  action,
		guard:   guard,
	})

	return c
}

// Table is the dispatch table (state, trigger) -> (action, next state)
type Table struct {
	rows map[State]map[Trigger][]Transition
}

// CanFire returns true if any transition exists for the trigger in the given state.
// Guards are not evaluated.
func (t *Table) CanFire(state State, trigger Trigger) bool {
	return len(t.rows[state][trigger]) > 0
}

// Resolve returns the first transition whose guard accepts the event
func (t *Table) Resolve(ctx context.Context, state State, evt Event) (Transition, error) {
	if !state.IsValid() {
		return Transition{}, fmt.Errorf("%w: %s", ErrInvalidState, state)
	}

	transitions := t.rows[state][evt.Trigger]
	if len(transitions) == 0 {
		return Transition{}, fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, evt.Trigger, state)
	}

	for _, tr := range transitions {
		if tr.guard == nil || tr.guard(ctx, evt) {
			return tr, nil
		}
	}

	return Transition{}, fmt.Errorf("%w: trigger %s from state %s", ErrGuardFailed, evt.Trigger, state)
}

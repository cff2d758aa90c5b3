package conversation

import "errors"

var (
	// ErrInvalidTransition is returned when no transition exists for a state and trigger
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not valid
	ErrInvalidState = errors.New("invalid state")

	// ErrGuardFailed is returned when every guarded transition rejected the event
	ErrGuardFailed = errors.New("guard condition failed")

	// ErrOutOfOrder is returned when a field is set before the fields preceding it
	ErrOutOfOrder = errors.New("field set out of order")

	// ErrInvalidAmount is returned when the amount text is not a finite number
	ErrInvalidAmount = errors.New("invalid amount")
)

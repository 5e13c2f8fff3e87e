package polling

import (
	"errors"

	"github.com/pollready/pollready/internal/core/domain"
)

// State is an alias for domain.OperationState for internal use.
type State = domain.OperationState

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// ValidTransitions defines allowed state transitions.
// Key is the current state, value is the list of valid next states.
// Completed and Cancelled are terminal: nothing leaves them.
var ValidTransitions = map[State][]State{
	domain.OpStateIdle: {
		domain.OpStateRequesting,
		domain.OpStateCancelled,
	},
	domain.OpStateRequesting: {
		domain.OpStateAwaitingRetry,
		domain.OpStateCompleted,
		domain.OpStateCancelled,
	},
	domain.OpStateAwaitingRetry: {
		domain.OpStateRequesting,
		domain.OpStateCancelled,
	},
}

// CanTransition checks if a transition from one state to another is valid.
func CanTransition(from, to State) bool {
	for _, target := range ValidTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

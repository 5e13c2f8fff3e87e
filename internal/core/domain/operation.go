package domain

// OperationState describes where a polling operation is in its lifecycle.
type OperationState string

const (
	OpStateIdle          OperationState = "idle"
	OpStateRequesting    OperationState = "requesting"
	OpStateAwaitingRetry OperationState = "awaiting_retry"
	OpStateCompleted     OperationState = "completed"
	OpStateCancelled     OperationState = "cancelled"
)

func (s OperationState) String() string {
	return string(s)
}

// Terminal reports whether no further transitions are possible.
func (s OperationState) Terminal() bool {
	return s == OpStateCompleted || s == OpStateCancelled
}

package domain

// ErrorCode identifies the failure class carried by an ErrorRecord.
type ErrorCode string

const (
	ErrCodeDataNotReady     ErrorCode = "DATA_NOT_READY_YET"
	ErrCodeUnexpectedFormat ErrorCode = "UNEXPECTED_RESPONSE_FORMAT"
	ErrCodeUnknown          ErrorCode = "UNKNOWN_ERROR"
)

func (c ErrorCode) String() string {
	return string(c)
}

// ErrorRecord is the structured error payload of a ProgressEvent.
// A fresh value is constructed for every event, never mutated in place.
type ErrorRecord struct {
	ErrorCode    ErrorCode `json:"errorCode"`
	ErrorMessage string    `json:"errorMessage"`
	Message      string    `json:"message,omitempty"`
	Attempts     int       `json:"attempts"`
	MaxRetries   int       `json:"maxRetries"`
	Delay        int       `json:"delay"`      // seconds until the next attempt
	TotalDelay   int       `json:"totalDelay"` // seconds elapsed since the operation started
}

// ProgressEvent is a single caller-visible notification from a polling
// operation. Exactly one stream of events exists per operation; the last
// event before the stream closes carries the terminal outcome.
type ProgressEvent struct {
	Loading bool         `json:"loading,omitempty"`
	Ready   bool         `json:"ready,omitempty"`
	Data    any          `json:"data,omitempty"`
	Err     *ErrorRecord `json:"error,omitempty"`
}

package polling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pollready/pollready/internal/core/domain"
	"github.com/pollready/pollready/internal/infra/fetch"
)

// Kind is the classification of one transport outcome.
type Kind int

const (
	KindReady Kind = iota // resource is available, Data carries the payload
	KindNotReady
	KindFormatInvalid
	KindServerFailure
)

func (k Kind) String() string {
	switch k {
	case KindReady:
		return "ready"
	case KindNotReady:
		return "not_ready"
	case KindFormatInvalid:
		return "format_invalid"
	case KindServerFailure:
		return "server_failure"
	default:
		return "unknown"
	}
}

// Classification is the interpreted result of one attempt.
type Classification struct {
	Kind    Kind
	Data    any              // set for KindReady only
	Code    domain.ErrorCode // error code surfaced if this attempt ends the operation
	Message string
}

var (
	jsonTrue  = []byte("true")
	jsonFalse = []byte("false")
)

// Classify maps a raw transport outcome to exactly one classification.
//
//   - 200 with body {ready:true, data:<present>} is Ready.
//   - 404 with body whose ready field is exactly false is NotReady.
//   - 200 with any other body shape is FormatInvalid.
//   - everything else, including a 404 whose ready is not exactly false,
//     is ServerFailure. The 404 asymmetry is deliberate: only the exact
//     not-ready signal is treated as the expected polling condition.
func Classify(out *fetch.Outcome) Classification {
	if out.Err != nil {
		return Classification{
			Kind:    KindServerFailure,
			Code:    domain.ErrCodeUnknown,
			Message: out.Err.Error(),
		}
	}

	switch out.StatusCode {
	case http.StatusOK:
		fields, err := bodyFields(out.Body)
		if err != nil {
			return formatInvalid()
		}
		ready, ok := fields["ready"]
		if !ok || !bytes.Equal(bytes.TrimSpace(ready), jsonTrue) {
			return formatInvalid()
		}
		raw, ok := fields["data"]
		if !ok {
			return formatInvalid()
		}
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return formatInvalid()
		}
		return Classification{Kind: KindReady, Data: data}

	case http.StatusNotFound:
		fields, err := bodyFields(out.Body)
		if err == nil {
			if ready, ok := fields["ready"]; ok && bytes.Equal(bytes.TrimSpace(ready), jsonFalse) {
				return Classification{
					Kind:    KindNotReady,
					Code:    domain.ErrCodeDataNotReady,
					Message: "data is not ready yet",
				}
			}
		}
		return serverFailure(out.StatusCode)

	default:
		return serverFailure(out.StatusCode)
	}
}

func bodyFields(body []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func formatInvalid() Classification {
	return Classification{
		Kind:    KindFormatInvalid,
		Code:    domain.ErrCodeUnexpectedFormat,
		Message: "unexpected response format",
	}
}

func serverFailure(status int) Classification {
	return Classification{
		Kind:    KindServerFailure,
		Code:    domain.ErrCodeUnknown,
		Message: fmt.Sprintf("request failed with status %d", status),
	}
}

package stream

import (
	"fmt"
)

// Kind tags the variant of a validation Result.
type Kind int

const (
	Valid Kind = iota
	InvalidStatus
	InvalidContentType
	// InvalidRequest is a request rejected before it was sent.
	InvalidRequest
)

func (k Kind) String() string {
	switch k {
	case Valid:
		return "valid"
	case InvalidStatus:
		return "invalid_status"
	case InvalidContentType:
		return "invalid_content_type"
	case InvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, kind := range []Kind{Valid, InvalidStatus, InvalidContentType, InvalidRequest} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown result kind %q", text)
}

// Result is the outcome of validating a Request.
type Result struct {
	Kind    Kind    `json:"kind" jsonschema:"type=string,enum=valid,enum=invalid_status,enum=invalid_content_type,enum=invalid_request"`
	Request Request `json:"request"`
	// Reason is the status text or transport error for InvalidStatus, the rejection for InvalidRequest.
	Reason      string `json:"reason,omitempty"`
	StatusCode  int    `json:"status_code,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// OK reports whether the stream may be played.
func (r Result) OK() bool {
	return r.Kind == Valid
}

// Message is the user-visible error text, empty for valid results.
func (r Result) Message() string {
	switch r.Kind {
	case InvalidStatus:
		return fmt.Sprintf("Failed to load video: %s", r.Reason)
	case InvalidContentType:
		return fmt.Sprintf("Invalid URL for %s video", r.Request.Protocol.Label())
	case InvalidRequest:
		return r.Reason
	default:
		return ""
	}
}

// Err returns nil for valid results and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Kind: r.Kind, Message: r.Message()}
}

// ValidationError is the error form of a rejected Result.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validResult(req Request, code int, contentType string) Result {
	return Result{Kind: Valid, Request: req, StatusCode: code, ContentType: contentType}
}

func statusFailure(req Request, code int, reason string) Result {
	return Result{Kind: InvalidStatus, Request: req, StatusCode: code, Reason: reason}
}

func requestRejected(req Request, err error) Result {
	return Result{Kind: InvalidRequest, Request: req, Reason: err.Error()}
}

func contentTypeMismatch(req Request, code int, contentType string) Result {
	return Result{Kind: InvalidContentType, Request: req, StatusCode: code, ContentType: contentType}
}

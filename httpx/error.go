package httpx

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed call.
type Kind string

const (
	// KindNetwork means no HTTP response was obtained from any candidate origin.
	KindNetwork Kind = "network"
	// KindHTTP means a response with a non-2xx status was received.
	KindHTTP Kind = "http"
	// KindDecode means a 2xx response carried a body that is not valid JSON.
	KindDecode Kind = "decode"
)

// Error is returned by Client.Request for every failure other than context
// cancellation. Error() yields Message, which is meant to be shown to users.
type Error struct {
	Kind Kind

	Method string
	URL    string

	// StatusCode is the HTTP status code. It is 0 when no response was received.
	StatusCode int

	// Message is the human readable failure reason extracted from the response
	// body when possible.
	Message string

	// RequestID is the correlation id sent with the request.
	RequestID string

	// RawBody is a truncated copy of the response body (non-2xx and decode failures).
	RawBody []byte

	// Cause is the underlying error (transport error, JSON decode error, etc).
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	if e.StatusCode != 0 {
		return genericStatusMessage(e.StatusCode)
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return genericMessage
}

func (e *Error) Unwrap() error { return e.Cause }

// Describe returns a one-line diagnostic including method, URL and request id,
// suitable for logs rather than for users.
func (e *Error) Describe() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Method != "" {
		b.WriteString(" ")
		b.WriteString(strings.ToUpper(e.Method))
	}
	if e.URL != "" {
		b.WriteString(" ")
		b.WriteString(e.URL)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " status=%d", e.StatusCode)
	}
	if e.RequestID != "" {
		b.WriteString(" request_id=")
		b.WriteString(e.RequestID)
	}
	b.WriteString(": ")
	b.WriteString(e.Error())
	return b.String()
}

const genericMessage = "Request failed"

func genericStatusMessage(code int) string {
	return fmt.Sprintf("Request failed (status %d)", code)
}

// AsError extracts *Error.
func AsError(err error) (*Error, bool) {
	var he *Error
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// StatusCode returns the HTTP status attached to err, or 0.
func StatusCode(err error) int {
	if he, ok := AsError(err); ok {
		return he.StatusCode
	}
	return 0
}

func IsHTTPStatus(err error, code int) bool {
	return code != 0 && StatusCode(err) == code
}

// IsNetwork reports whether err means no candidate origin could be reached.
func IsNetwork(err error) bool {
	he, ok := AsError(err)
	return ok && he.Kind == KindNetwork
}

// IsDecode reports whether err is a malformed 2xx response body.
func IsDecode(err error) bool {
	he, ok := AsError(err)
	return ok && he.Kind == KindDecode
}

package httpx

import "github.com/google/uuid"

type RequestIDFunc func() string

type RequestIDConfig struct {
	// Header carries the request id, e.g. "X-Request-ID".
	// If empty, request id injection is disabled.
	Header string

	// New generates a request id when the header is missing.
	// If nil, DefaultRequestID is used.
	New RequestIDFunc
}

func DefaultRequestIDConfig() RequestIDConfig {
	return RequestIDConfig{
		Header: "X-Request-ID",
		New:    DefaultRequestID,
	}
}

// DefaultRequestID returns a random UUID. The same id is reused for every
// candidate origin of one call so fallbacks can be correlated server side.
func DefaultRequestID() string {
	return uuid.NewString()
}

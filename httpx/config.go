package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/BADARRASHEED/Student-Result-Tracking/session"
)

// Config configures a Client. Use DefaultConfig() as a baseline.
type Config struct {
	// Origins selects the candidate origins for every request.
	Origins OriginPolicy

	// Session supplies the bearer token. A nil Session means requests are sent
	// without Authorization.
	Session session.Store

	// Timeout bounds one call across all candidate origins. Zero leaves timing
	// to the transport and the request context.
	Timeout time.Duration

	// Transport is the underlying RoundTripper. If nil, a tuned default is used.
	Transport http.RoundTripper

	// DefaultHeaders are copied into every request (caller headers win).
	DefaultHeaders http.Header

	// UserAgent is set when the request does not already have a User-Agent header.
	UserAgent string

	// MaxErrorBodyBytes limits how much of a non-2xx body is read.
	// If zero, DefaultMaxErrorBodyBytes is used.
	MaxErrorBodyBytes int64

	// RequestID configures correlation id propagation.
	RequestID RequestIDConfig

	// Logger receives per-attempt diagnostics. Nil discards them.
	Logger *slog.Logger
}

const DefaultMaxErrorBodyBytes int64 = 64 << 10 // 64KiB

// DefaultConfig returns the configuration used by New before options apply.
func DefaultConfig() Config {
	return Config{
		Origins:           DefaultOriginPolicy("localhost"),
		Transport:         DefaultTransport(),
		DefaultHeaders:    make(http.Header),
		MaxErrorBodyBytes: DefaultMaxErrorBodyBytes,
		RequestID:         DefaultRequestIDConfig(),
	}
}

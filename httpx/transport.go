package httpx

import (
	"net"
	"net/http"
	"time"
)

// TransportConfig holds the transport knobs exposed through application config.
// Zero values keep the defaults of DefaultTransport.
type TransportConfig struct {
	DialTimeout           time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
}

// NewTransport builds an *http.Transport starting from DefaultTransport() and applying overrides.
func NewTransport(cfg TransportConfig) *http.Transport {
	t := DefaultTransport()
	if cfg.DialTimeout > 0 {
		t.DialContext = (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext
	}
	if cfg.TLSHandshakeTimeout > 0 {
		t.TLSHandshakeTimeout = cfg.TLSHandshakeTimeout
	}
	if cfg.ResponseHeaderTimeout > 0 {
		t.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout
	}
	return t
}

// DefaultTransport returns a clone of http.DefaultTransport with a short dial
// timeout, so an unreachable primary origin gives way to the fallback quickly.
// The hosted backend may be cold-starting, hence the generous header timeout.
func DefaultTransport() *http.Transport {
	base, _ := http.DefaultTransport.(*http.Transport)
	if base == nil {
		return &http.Transport{}
	}
	t := base.Clone()

	t.DialContext = (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	t.TLSHandshakeTimeout = 10 * time.Second
	t.ResponseHeaderTimeout = 60 * time.Second
	t.IdleConnTimeout = 90 * time.Second
	t.MaxIdleConnsPerHost = 10
	t.ForceAttemptHTTP2 = true
	return t
}

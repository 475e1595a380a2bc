package httpx

import (
	"net"
	"strings"
)

const (
	// DefaultLocalOrigin is used when the client runs next to a local backend.
	DefaultLocalOrigin = "http://localhost:8000"
	// DefaultRemoteOrigin is the hosted backend. It doubles as the fallback origin.
	DefaultRemoteOrigin = "https://student-result-tracking-backend.onrender.com"
)

// OriginPolicy decides which origins a request is sent to, and in which order.
type OriginPolicy struct {
	// Override replaces the locality based default when non-empty.
	Override string

	// Host is the hostname the client considers itself to be running on.
	// Loopback hosts select Local, anything else selects Remote.
	Host string

	Local    string
	Remote   string
	Fallback string
}

// DefaultOriginPolicy returns the compiled-in origins for the given host.
func DefaultOriginPolicy(host string) OriginPolicy {
	return OriginPolicy{
		Host:     host,
		Local:    DefaultLocalOrigin,
		Remote:   DefaultRemoteOrigin,
		Fallback: DefaultRemoteOrigin,
	}
}

// Primary returns the first origin a request is attempted against.
func (p OriginPolicy) Primary() string {
	if o := normalizeOrigin(p.Override); o != "" {
		return o
	}
	if IsLoopbackHost(p.Host) {
		return normalizeOrigin(p.Local)
	}
	return normalizeOrigin(p.Remote)
}

// Candidates returns the ordered origin list: the primary origin followed by the
// fallback origin unless the primary already points at it (same origin, or a
// path below it).
func (p OriginPolicy) Candidates() []string {
	out := make([]string, 0, 2)
	if primary := p.Primary(); primary != "" {
		out = append(out, primary)
	}
	fb := normalizeOrigin(p.Fallback)
	if fb == "" {
		return out
	}
	for _, o := range out {
		if o == fb || strings.HasPrefix(o, fb+"/") {
			return out
		}
	}
	return append(out, fb)
}

// IsLoopbackHost reports whether host names the local machine.
// Ports and IPv6 brackets are ignored.
func IsLoopbackHost(host string) bool {
	h := strings.TrimSpace(host)
	if h == "" {
		return false
	}
	if hh, _, err := net.SplitHostPort(h); err == nil {
		h = hh
	}
	h = strings.TrimSuffix(strings.TrimPrefix(h, "["), "]")
	switch strings.ToLower(h) {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

func normalizeOrigin(o string) string {
	return strings.TrimRight(strings.TrimSpace(o), "/")
}

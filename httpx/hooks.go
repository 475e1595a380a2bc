package httpx

import (
	"net/http"
	"time"
)

// BeforeHook runs before each origin attempt. Returning an error aborts the call.
// attempt starts at 1 for the primary origin.
type BeforeHook func(req *http.Request, attempt int) error

// AfterHook runs after each origin attempt, whether it produced a response or not.
type AfterHook func(req *http.Request, resp *http.Response, err error, dur time.Duration, attempt int)

type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func chain(rt http.RoundTripper, mws []Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		rt = mws[i](rt)
	}
	return rt
}

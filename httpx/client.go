package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/BADARRASHEED/Student-Result-Tracking/session"
)

type Client struct {
	httpClient *http.Client

	mu      sync.RWMutex
	origins OriginPolicy

	session session.Store

	timeout        time.Duration
	defaultHeaders http.Header
	userAgent      string
	maxErrBody     int64

	requestID RequestIDConfig
	logger    *slog.Logger

	before []BeforeHook
	after  []AfterHook
}

// New constructs a Client from DefaultConfig() plus the provided options.
func New(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, o := range opts {
		if o != nil {
			o.apply(&cfg)
		}
	}
	return NewWithConfig(cfg)
}

func NewWithConfig(cfg Config) (*Client, error) {
	if err := validateOrigins(cfg.Origins); err != nil {
		return nil, err
	}

	rt := cfg.Transport
	if rt == nil {
		rt = DefaultTransport()
	}

	maxErrBody := cfg.MaxErrorBodyBytes
	if maxErrBody <= 0 {
		maxErrBody = DefaultMaxErrorBodyBytes
	}

	// Clone headers to avoid caller mutation.
	hdr := make(http.Header)
	for k, vv := range cfg.DefaultHeaders {
		for _, v := range vv {
			hdr.Add(k, v)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		// Redirects are followed by the transport layer as usual; the whole
		// exchange counts as one attempt against one origin.
		httpClient:     &http.Client{Transport: rt},
		origins:        cfg.Origins,
		session:        cfg.Session,
		timeout:        cfg.Timeout,
		defaultHeaders: hdr,
		userAgent:      cfg.UserAgent,
		maxErrBody:     maxErrBody,
		requestID:      cfg.RequestID,
		logger:         logger,
	}
	if c.requestID.New == nil && c.requestID.Header != "" {
		c.requestID.New = DefaultRequestID
	}
	return c, nil
}

func validateOrigins(p OriginPolicy) error {
	for _, o := range []string{p.Override, p.Local, p.Remote, p.Fallback} {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return errors.New("httpx: origin must be an absolute http(s) url: " + o)
		}
	}
	return nil
}

// WithMiddleware wraps the underlying RoundTripper with middleware.
// Call this during initialization (before the client is used concurrently).
func (c *Client) WithMiddleware(mws ...Middleware) *Client {
	if len(mws) == 0 {
		return c
	}
	rt := c.httpClient.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	c.httpClient.Transport = chain(rt, mws)
	return c
}

// WithHooks adds hooks (executed for every origin attempt).
// Call this during initialization (before the client is used concurrently).
func (c *Client) WithHooks(before []BeforeHook, after []AfterHook) *Client {
	c.before = append(c.before, before...)
	c.after = append(c.after, after...)
	return c
}

// SetOrigins replaces the origin policy used by subsequent calls. Calls already
// in flight keep the candidate list they started with.
func (c *Client) SetOrigins(p OriginPolicy) error {
	if err := validateOrigins(p); err != nil {
		return err
	}
	c.mu.Lock()
	c.origins = p
	c.mu.Unlock()
	return nil
}

// Origins returns the current origin policy.
func (c *Client) Origins() OriginPolicy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.origins
}

// Candidates returns the origins the next call will try, in order.
func (c *Client) Candidates() []string {
	return c.Origins().Candidates()
}

// Primary returns the first candidate origin.
func (c *Client) Primary() string {
	return c.Origins().Primary()
}

func (c *Client) token() string {
	if c.session == nil {
		return ""
	}
	s, err := c.session.Load()
	if err != nil {
		c.logger.Warn("session unavailable, sending request without token", "err", err)
		return ""
	}
	return s.Token
}

// Request sends the request to the candidate origins in order and decodes the
// JSON response into dst (which may be nil to only validate the body).
//
// An origin that cannot be reached gives way to the next one. Once any origin
// answers, its response is final: non-2xx statuses become *Error with
// Kind == KindHTTP and no further origin is contacted.
func (c *Client) Request(ctx context.Context, path string, dst any, opts ...RequestOption) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validatePath(path); err != nil {
		return err
	}
	rc, err := newRequestConfig(opts)
	if err != nil {
		return err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ex, err := c.roundTrip(ctx, path, rc)
	if err != nil {
		return err
	}
	defer ex.resp.Body.Close()

	if ex.resp.StatusCode < 200 || ex.resp.StatusCode > 299 {
		return c.responseError(ex)
	}
	return decodeSuccess(ex, dst)
}

// exchange is the outcome of the one origin that answered.
type exchange struct {
	resp      *http.Response
	method    string
	url       string
	requestID string
}

func (c *Client) roundTrip(ctx context.Context, path string, rc requestConfig) (*exchange, error) {
	h := c.buildHeader(rc, c.token())
	candidates := c.Candidates()
	rid := ""
	if c.requestID.Header != "" {
		rid = h.Get(c.requestID.Header)
	}

	var lastErr error
	for i, origin := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempt := i + 1
		req, err := newAttempt(ctx, origin, path, rc, h)
		if err != nil {
			return nil, err
		}
		for _, hook := range c.before {
			if hook == nil {
				continue
			}
			if err := hook(req, attempt); err != nil {
				return nil, err
			}
		}

		t0 := time.Now()
		resp, err := c.httpClient.Do(req)
		dur := time.Since(t0)

		for _, hook := range c.after {
			if hook != nil {
				hook(req, resp, err, dur, attempt)
			}
		}

		if err == nil {
			c.logger.Debug("api response", "method", rc.method, "url", req.URL.String(),
				"status", resp.StatusCode, "attempt", attempt, "duration", dur)
			return &exchange{resp: resp, method: rc.method, url: req.URL.String(), requestID: rid}, nil
		}

		// http.Client may hand back a response alongside an error (redirect issues).
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = &Error{
			Kind:      KindNetwork,
			Method:    rc.method,
			URL:       req.URL.String(),
			Message:   err.Error(),
			RequestID: rid,
			Cause:     err,
		}
		if attempt < len(candidates) {
			c.logger.Warn("origin unreachable, trying next origin", "url", req.URL.String(),
				"next", candidates[attempt], "attempt", attempt, "err", err)
		} else {
			c.logger.Warn("origin unreachable", "url", req.URL.String(), "attempt", attempt, "err", err)
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, &Error{Kind: KindNetwork, Method: rc.method, Message: genericMessage}
}

func (c *Client) responseError(ex *exchange) error {
	raw, _ := io.ReadAll(io.LimitReader(ex.resp.Body, c.maxErrBody))
	return &Error{
		Kind:       KindHTTP,
		Method:     ex.method,
		URL:        ex.url,
		StatusCode: ex.resp.StatusCode,
		Message:    errorMessage(ex.resp.StatusCode, ex.resp.Header.Get("Content-Type"), raw),
		RequestID:  ex.requestID,
		RawBody:    raw,
		Cause:      errors.New(http.StatusText(ex.resp.StatusCode)),
	}
}

package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type RequestOption interface{ apply(*requestConfig) }

type requestOptionFunc func(*requestConfig)

func (f requestOptionFunc) apply(c *requestConfig) { f(c) }

type requestConfig struct {
	method string
	header http.Header
	query  url.Values

	body    []byte
	hasBody bool
	bodyErr error
}

// WithMethod sets the HTTP method. GET is used when unset.
func WithMethod(method string) RequestOption {
	return requestOptionFunc(func(c *requestConfig) { c.method = method })
}

// WithHeader sets a caller header. Caller headers replace client defaults,
// including the JSON Content-Type.
func WithHeader(key, value string) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		if c.header == nil {
			c.header = make(http.Header)
		}
		c.header.Set(key, value)
	})
}

func WithHeaders(h http.Header) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		if h == nil {
			return
		}
		if c.header == nil {
			c.header = make(http.Header)
		}
		for k, vv := range h {
			for _, v := range vv {
				c.header.Add(k, v)
			}
		}
	})
}

func WithQuery(values url.Values) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		if values == nil {
			return
		}
		if c.query == nil {
			c.query = make(url.Values)
		}
		for k, vv := range values {
			for _, v := range vv {
				c.query.Add(k, v)
			}
		}
	})
}

func WithQueryParam(key, value string) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		if c.query == nil {
			c.query = make(url.Values)
		}
		c.query.Add(key, value)
	})
}

// WithBodyBytes sends b as the request body unchanged.
func WithBodyBytes(b []byte) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		c.body = append([]byte(nil), b...)
		c.hasBody = true
		c.bodyErr = nil
	})
}

// WithJSON sends v encoded as JSON.
func WithJSON(v any) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		b, err := json.Marshal(v)
		if err != nil {
			c.bodyErr = err
			return
		}
		c.body = b
		c.hasBody = true
		c.bodyErr = nil
	})
}

// WithForm sends values form-encoded and switches Content-Type accordingly.
func WithForm(values url.Values) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		c.body = []byte(values.Encode())
		c.hasBody = true
		c.bodyErr = nil
		if c.header == nil {
			c.header = make(http.Header)
		}
		c.header.Set("Content-Type", "application/x-www-form-urlencoded")
	})
}

func newRequestConfig(opts []RequestOption) (requestConfig, error) {
	rc := requestConfig{}
	for _, o := range opts {
		if o != nil {
			o.apply(&rc)
		}
	}
	if rc.bodyErr != nil {
		return rc, rc.bodyErr
	}
	rc.method = strings.ToUpper(strings.TrimSpace(rc.method))
	if rc.method == "" {
		rc.method = http.MethodGet
	}
	return rc, nil
}

func validatePath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return errors.New("httpx: path must begin with \"/\"")
	}
	return nil
}

// buildHeader assembles the header set shared by every candidate origin of a call.
func (c *Client) buildHeader(rc requestConfig, token string) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	for k, vv := range c.defaultHeaders {
		h.Del(k)
		for _, v := range vv {
			h.Add(k, v)
		}
	}
	for k, vv := range rc.header {
		h.Del(k)
		for _, v := range vv {
			h.Add(k, v)
		}
	}
	if c.userAgent != "" && h.Get("User-Agent") == "" {
		h.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	if c.requestID.Header != "" && h.Get(c.requestID.Header) == "" && c.requestID.New != nil {
		if id := strings.TrimSpace(c.requestID.New()); id != "" {
			h.Set(c.requestID.Header, id)
		}
	}
	return h
}

// newAttempt builds the request for one candidate origin. The body is replayed
// from bytes so every origin receives the same payload.
func newAttempt(ctx context.Context, origin, path string, rc requestConfig, h http.Header) (*http.Request, error) {
	u, err := url.Parse(origin + path)
	if err != nil {
		return nil, err
	}
	if len(rc.query) > 0 {
		q := u.Query()
		for k, vv := range rc.query {
			for _, v := range vv {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if rc.hasBody {
		body = bytes.NewReader(rc.body)
	}
	req, err := http.NewRequestWithContext(ctx, rc.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header = h.Clone()
	return req, nil
}

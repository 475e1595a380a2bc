package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/BADARRASHEED/Student-Result-Tracking/session"
)

type Option interface{ apply(*Config) }

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

func WithOrigins(p OriginPolicy) Option {
	return optionFunc(func(c *Config) { c.Origins = p })
}

// WithBaseURL sets the origin override, keeping the configured fallback.
func WithBaseURL(baseURL string) Option {
	return optionFunc(func(c *Config) { c.Origins.Override = baseURL })
}

func WithSession(s session.Store) Option {
	return optionFunc(func(c *Config) { c.Session = s })
}

func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.Timeout = d })
}

func WithTransport(rt http.RoundTripper) Option {
	return optionFunc(func(c *Config) { c.Transport = rt })
}

func WithDefaultHeader(key, value string) Option {
	return optionFunc(func(c *Config) {
		if c.DefaultHeaders == nil {
			c.DefaultHeaders = make(http.Header)
		}
		c.DefaultHeaders.Set(key, value)
	})
}

func WithDefaultHeaders(h http.Header) Option {
	return optionFunc(func(c *Config) {
		if h == nil {
			return
		}
		if c.DefaultHeaders == nil {
			c.DefaultHeaders = make(http.Header)
		}
		for k, vv := range h {
			for _, v := range vv {
				c.DefaultHeaders.Add(k, v)
			}
		}
	})
}

func WithUserAgent(ua string) Option {
	return optionFunc(func(c *Config) { c.UserAgent = ua })
}

func WithMaxErrorBodyBytes(n int64) Option {
	return optionFunc(func(c *Config) { c.MaxErrorBodyBytes = n })
}

func WithRequestID(cfg RequestIDConfig) Option {
	return optionFunc(func(c *Config) { c.RequestID = cfg })
}

func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *Config) { c.Logger = l })
}

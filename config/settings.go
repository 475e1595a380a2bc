package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BADARRASHEED/Student-Result-Tracking/httpx"
)

// EnvPrefix is the prefix of every environment variable read by Settings.
// RESULTTRACK_API_BASE overrides the primary origin.
const EnvPrefix = "RESULTTRACK"

// Settings is the application configuration of the resulttrack tools.
type Settings struct {
	API     APISettings     `mapstructure:"api" json:"api"`
	Session SessionSettings `mapstructure:"session" json:"session"`
	Log     LogSettings     `mapstructure:"log" json:"log"`
}

type APISettings struct {
	// Base overrides the locality based choice of primary origin.
	Base         string `mapstructure:"base" json:"base"`
	LocalBase    string `mapstructure:"local_base" json:"local_base"`
	RemoteBase   string `mapstructure:"remote_base" json:"remote_base"`
	FallbackBase string `mapstructure:"fallback_base" json:"fallback_base"`
	// Host is the hostname used for the loopback check.
	Host string `mapstructure:"host" json:"host"`

	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	DialTimeout time.Duration `mapstructure:"dial_timeout" json:"dial_timeout"`
}

type SessionSettings struct {
	// Path of the session file. Empty selects the per-user default.
	Path string `mapstructure:"path" json:"path"`
}

type LogSettings struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// DefaultSettings lists every key with its default, so each one can be
// overridden from the environment.
func DefaultSettings() map[string]any {
	return map[string]any{
		"api.base":          "",
		"api.local_base":    httpx.DefaultLocalOrigin,
		"api.remote_base":   httpx.DefaultRemoteOrigin,
		"api.fallback_base": httpx.DefaultRemoteOrigin,
		"api.host":          "localhost",
		"api.timeout":       "0s",
		"api.dial_timeout":  "0s",
		"session.path":      "",
		"log.level":         "warn",
		"log.format":        "text",
	}
}

// LoadSettings reads Settings from path (optional), .env files and RESULTTRACK_* variables.
func LoadSettings(path string, opts ...Option[Settings]) (*Config[Settings], error) {
	all := []Option[Settings]{
		WithDefaults[Settings](DefaultSettings()),
		WithDotEnv[Settings](".env"),
		WithEnv[Settings](EnvPrefix),
	}
	all = append(all, opts...)
	return Load[Settings](path, all...)
}

// Origins converts the API settings into the client origin policy.
func (s APISettings) Origins() httpx.OriginPolicy {
	return httpx.OriginPolicy{
		Override: s.Base,
		Host:     s.Host,
		Local:    s.LocalBase,
		Remote:   s.RemoteBase,
		Fallback: s.FallbackBase,
	}
}

// Transport converts the API settings into transport overrides.
func (s APISettings) Transport() httpx.TransportConfig {
	return httpx.TransportConfig{DialTimeout: s.DialTimeout}
}

// SlogLevel parses Level. Unknown values are an error.
func (s LogSettings) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s.Level))); err != nil {
		return slog.LevelWarn, fmt.Errorf("config: log.level: %w", err)
	}
	return lvl, nil
}

// Package config loads typed configuration from an optional file, .env files
// and the environment, and reloads it when the file changes.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is a concurrency-safe holder of a typed configuration value.
type Config[T any] struct {
	v        *viper.Viper
	value    *T
	mu       sync.RWMutex
	watchers []func(old, new T)

	path     string
	dotEnv   []string
	noWatch  bool
	debounce time.Duration
}

type Option[T any] func(*Config[T])

// WithDefaults sets default values. Every key that should be overridable from
// the environment needs a default, otherwise viper does not know about it.
func WithDefaults[T any](defaults map[string]any) Option[T] {
	return func(c *Config[T]) {
		for k, v := range defaults {
			c.v.SetDefault(k, v)
		}
	}
}

// WithEnv binds environment variables: key "api.base" with prefix "APP" reads APP_API_BASE.
func WithEnv[T any](prefix string) Option[T] {
	return func(c *Config[T]) {
		c.v.SetEnvPrefix(prefix)
		c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		c.v.AutomaticEnv()
	}
}

// WithDotEnv loads the given .env files into the process environment before
// the configuration is read. Missing files are skipped; variables already set
// in the environment win.
func WithDotEnv[T any](paths ...string) Option[T] {
	return func(c *Config[T]) {
		c.dotEnv = append(c.dotEnv, paths...)
	}
}

// WithoutWatch disables reloading when the config file changes.
func WithoutWatch[T any]() Option[T] {
	return func(c *Config[T]) { c.noWatch = true }
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment apply and nothing is watched.
func Load[T any](path string, opts ...Option[T]) (*Config[T], error) {
	v := viper.New()
	c := &Config[T]{v: v, path: path, debounce: 100 * time.Millisecond}

	for _, opt := range opts {
		opt(c)
	}

	if err := loadDotEnv(c.dotEnv); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var val T
	if err := v.Unmarshal(&val); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	c.value = &val

	if path != "" && !c.noWatch {
		c.watch()
	}
	return c, nil
}

func loadDotEnv(paths []string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: stat %s: %w", p, err)
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// Get returns the current value (deep copy, safe for concurrent use).
func (c *Config[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopy(*c.value)
}

// Path returns the config file in use, or "".
func (c *Config[T]) Path() string { return c.path }

// OnChange registers a callback run after a reload that changed the value.
// Callback panics are recovered.
func (c *Config[T]) OnChange(callback func(old, new T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, callback)
}

// Changed reports whether two values differ.
func Changed[T any](old, new T) bool {
	return !reflect.DeepEqual(old, new)
}

// deepCopy copies through a JSON round trip.
func deepCopy[T any](src T) T {
	var dst T
	data, _ := json.Marshal(src)
	_ = json.Unmarshal(data, &dst)
	return dst
}

func (c *Config[T]) watch() {
	var (
		debounceTimer *time.Timer
		debounceMu    sync.Mutex
	)

	c.v.OnConfigChange(func(_ fsnotify.Event) {
		debounceMu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(c.debounce, c.handleConfigChange)
		debounceMu.Unlock()
	})

	c.v.WatchConfig()
}

func (c *Config[T]) handleConfigChange() {
	oldConfig := c.Get()

	newConfig, watchers, ok := c.reload()
	if !ok {
		return
	}

	if reflect.DeepEqual(oldConfig, newConfig) {
		return
	}

	for _, cb := range watchers {
		func() {
			defer func() { _ = recover() }()
			cb(oldConfig, newConfig)
		}()
	}
}

// reload re-reads the file. A file that fails to parse keeps the previous value.
func (c *Config[T]) reload() (T, []func(old, new T), bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if err := c.v.ReadInConfig(); err != nil {
		return zero, nil, false
	}

	var val T
	if err := c.v.Unmarshal(&val); err != nil {
		return zero, nil, false
	}
	c.value = &val

	watchers := make([]func(old, new T), len(c.watchers))
	copy(watchers, c.watchers)

	return deepCopy(val), watchers, true
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BADARRASHEED/Student-Result-Tracking/httpx"
)

func TestLoadSettings_Defaults(t *testing.T) {
	cfg, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	s := cfg.Get()
	if s.API.LocalBase != httpx.DefaultLocalOrigin || s.API.RemoteBase != httpx.DefaultRemoteOrigin {
		t.Fatalf("api = %+v", s.API)
	}
	if s.API.Host != "localhost" || s.API.Timeout != 0 {
		t.Fatalf("api = %+v", s.API)
	}
	want := []string{httpx.DefaultLocalOrigin, httpx.DefaultRemoteOrigin}
	got := s.API.Origins().Candidates()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Candidates = %v", got)
	}
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	t.Setenv("RESULTTRACK_API_BASE", "http://10.1.1.1:8000")
	t.Setenv("RESULTTRACK_API_TIMEOUT", "15s")
	t.Setenv("RESULTTRACK_LOG_LEVEL", "debug")

	cfg, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	s := cfg.Get()
	if s.API.Origins().Primary() != "http://10.1.1.1:8000" {
		t.Fatalf("Primary = %q", s.API.Origins().Primary())
	}
	if s.API.Timeout != 15*time.Second {
		t.Fatalf("Timeout = %v", s.API.Timeout)
	}
	lvl, err := s.Log.SlogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Fatalf("SlogLevel = %v, %v", lvl, err)
	}
}

func TestLoadSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resulttrack.yaml")
	writeFile(t, path, `
api:
  host: results.example.org
  remote_base: https://api.example.org/
  fallback_base: https://backup.example.org
  dial_timeout: 2s
log:
  format: json
`)
	cfg, err := LoadSettings(path, WithoutWatch[Settings]())
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	s := cfg.Get()
	got := s.API.Origins().Candidates()
	if len(got) != 2 || got[0] != "https://api.example.org" || got[1] != "https://backup.example.org" {
		t.Fatalf("Candidates = %v", got)
	}
	if s.API.Transport().DialTimeout != 2*time.Second {
		t.Fatalf("DialTimeout = %v", s.API.Transport().DialTimeout)
	}
	if s.Log.Format != "json" || s.Log.Level != "warn" {
		t.Fatalf("log = %+v", s.Log)
	}
	if cfg.Path() != path {
		t.Fatalf("Path = %q", cfg.Path())
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadSettings_DotEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, "test.env")
	writeFile(t, env, "RESULTTRACK_API_HOST=127.0.0.1\n")
	t.Cleanup(func() { os.Unsetenv("RESULTTRACK_API_HOST") })

	cfg, err := LoadSettings("", WithDotEnv[Settings](env, filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got := cfg.Get().API.Host; got != "127.0.0.1" {
		t.Fatalf("Host = %q", got)
	}
}

func TestSlogLevel_Invalid(t *testing.T) {
	if _, err := (LogSettings{Level: "loud"}).SlogLevel(); err == nil {
		t.Fatalf("expected error")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

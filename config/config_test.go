package config

import (
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Name  string         `mapstructure:"name" json:"name"`
	Tags  []string       `mapstructure:"tags" json:"tags"`
	Extra map[string]int `mapstructure:"extra" json:"extra"`
}

func TestGetReturnsCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	writeFile(t, path, `{"name":"a","tags":["x"],"extra":{"k":1}}`)

	cfg, err := Load[testConfig](path, WithoutWatch[testConfig]())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v := cfg.Get()
	v.Tags[0] = "mutated"
	v.Extra["k"] = 99

	again := cfg.Get()
	if again.Tags[0] != "x" || again.Extra["k"] != 1 {
		t.Fatalf("Get leaked internal state: %+v", again)
	}
}

func TestChanged(t *testing.T) {
	a := testConfig{Name: "a"}
	if Changed(a, a) {
		t.Fatalf("equal values reported changed")
	}
	if !Changed(a, testConfig{Name: "b"}) {
		t.Fatalf("different values reported unchanged")
	}
}

func TestReloadOnFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, path, "name: before\n")

	cfg, err := Load[testConfig](path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	changed := make(chan testConfig, 1)
	cfg.OnChange(func(_, n testConfig) {
		select {
		case changed <- n:
		default:
		}
	})

	writeFile(t, path, "name: after\n")

	select {
	case n := <-changed:
		if n.Name != "after" {
			t.Fatalf("reloaded name = %q", n.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no reload observed")
	}
	if got := cfg.Get().Name; got != "after" {
		t.Fatalf("Get().Name = %q", got)
	}
}

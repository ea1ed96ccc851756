package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TRIVIA_API_URL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", cfg.API.BaseURL)
	}
	if cfg.Quiz.Size != 10 || cfg.Session.Backend != "file" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("api:\n  baseUrl: http://yaml.local\nquiz:\n  size: 5\nsession:\n  backend: redis\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TRIVIA_API_URL", "http://env.local")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://env.local" {
		t.Fatalf("expected env override, got %q", cfg.API.BaseURL)
	}
	if cfg.Quiz.Size != 5 || cfg.Session.Backend != "redis" {
		t.Fatalf("expected yaml values kept, got %+v", cfg)
	}
}

func TestTTLDuration(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback, got %v", d)
	}
	if d := TTLDuration("bogus", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback on parse error, got %v", d)
	}
	if d := TTLDuration("30s", time.Minute); d != 30*time.Second {
		t.Fatalf("expected 30s, got %v", d)
	}
}

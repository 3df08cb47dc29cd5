package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestValidate_Default(t *testing.T) {
	if warnings := Default().Validate(); len(warnings) != 0 {
		t.Errorf("default config should have no warnings, got %v", warnings)
	}
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"capacity", func(c *Config) { c.Cache.Capacity = 0 }, "cache capacity"},
		{"key", func(c *Config) { c.Cache.Key = "bytes" }, "cache key"},
		{"timeout", func(c *Config) { c.Engine.Timeout = 0 }, "engine timeout"},
		{"max_size", func(c *Config) { c.Engine.MaxSize = -1 }, "max_size"},
		{"sample_rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }, "sample_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if warnings := cfg.Validate(); !hasWarning(warnings, tt.want) {
				t.Errorf("expected warning containing %q, got %v", tt.want, warnings)
			}
		})
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Capacity != 16 || cfg.Cache.Key != KeyText {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Engine.Timeout != 5*time.Second || cfg.Engine.MaxSize != 1024 {
		t.Errorf("unexpected engine config: %+v", cfg.Engine)
	}
	if cfg.Tracing.ServiceName != "pcgrid" {
		t.Errorf("service name = %q", cfg.Tracing.ServiceName)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcgrid.yaml")
	data := `
cache:
  capacity: 4
  key: structural
engine:
  timeout: 250ms
  max_size: 64
log:
  level: debug
  json: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Capacity != 4 || cfg.Cache.Key != KeyStructural {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Engine.Timeout != 250*time.Millisecond || cfg.Engine.MaxSize != 64 {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("log = %+v", cfg.Log)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("sample rate = %v", cfg.Tracing.SampleRate)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PCGRID_CACHE_CAPACITY", "3")
	t.Setenv("PCGRID_TRACING_ENDPOINT", "localhost:4317")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Capacity != 3 {
		t.Errorf("capacity = %d, want 3", cfg.Cache.Capacity)
	}
	if cfg.Tracing.Endpoint != "localhost:4317" {
		t.Errorf("endpoint = %q", cfg.Tracing.Endpoint)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

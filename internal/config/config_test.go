package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Strategy != "coherent" {
		t.Errorf("default strategy = %q, want coherent", cfg.Strategy)
	}
	if cfg.Particles <= 0 || cfg.Dt <= 0 || cfg.Steps <= 0 {
		t.Error("default config has non-positive core parameters")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero particles", func(c *Config) { c.Particles = 0 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"bad strategy", func(c *Config) { c.Strategy = "warp" }},
		{"zero cohesion distance", func(c *Config) { c.Cohesion.Distance = 0 }},
		{"negative separation scale", func(c *Config) { c.Separation.Scale = -1 }},
		{"zero scene scale", func(c *Config) { c.SceneScale = 0 }},
		{"zero max speed", func(c *Config) { c.MaxSpeed = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flock.yaml")

	cfg := DefaultConfig()
	cfg.Particles = 1234
	cfg.Strategy = "scattered"
	cfg.Cohesion.Scale = 0.05

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip changed config:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("particles: 42\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Particles != 42 {
		t.Errorf("particles = %d, want 42", cfg.Particles)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("dt = %v, want default %v", cfg.Dt, DefaultDt)
	}
	if cfg.Cohesion.Distance != 5.0 {
		t.Errorf("cohesion distance = %v, want default 5.0", cfg.Cohesion.Distance)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			p := GetPreset(name)
			if p == nil {
				t.Fatal("listed preset not found")
			}
			if err := p.Validate(); err != nil {
				t.Errorf("preset invalid: %v", err)
			}
		})
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}

	// GetPreset must hand out copies, not the shared map entry.
	p := GetPreset("small")
	p.Particles = 1
	if Presets["small"].Particles == 1 {
		t.Error("mutating a returned preset changed the registry")
	}
}

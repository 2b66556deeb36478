package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen != ":8080" {
		t.Errorf("expected Listen=:8080, got %s", cfg.Listen)
	}
	if cfg.CartTTLDuration() != 45*time.Minute {
		t.Errorf("expected 45m cart TTL, got %s", cfg.CartTTLDuration())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FERAL_DB_PATH", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("expected default listen, got %s", cfg.Listen)
	}
}

func TestSaveLoad(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FERAL_DB_PATH", "")

	path := filepath.Join(t.TempDir(), "feral.yaml")
	cfg := Default()
	cfg.Listen = ":9999"
	cfg.CartTTL = "10m"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Listen != ":9999" {
		t.Errorf("expected Listen=:9999, got %s", loaded.Listen)
	}
	if loaded.CartTTLDuration() != 10*time.Minute {
		t.Errorf("expected 10m TTL, got %s", loaded.CartTTLDuration())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("FERAL_DB_PATH", "/tmp/other.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listen != ":3000" {
		t.Errorf("expected PORT override, got %s", cfg.Listen)
	}
	if cfg.DatabasePath != "/tmp/other.db" {
		t.Errorf("expected db path override, got %s", cfg.DatabasePath)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.CartTTL = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid cart_ttl")
	}

	cfg = Default()
	cfg.LogoMaxWidth = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero logo_max_width")
	}
}

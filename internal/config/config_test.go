package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIPort != 8080 {
		t.Errorf("api_port = %d, want 8080", cfg.APIPort)
	}
	if cfg.Speed != 1.0 {
		t.Errorf("speed = %g, want 1.0", cfg.Speed)
	}
	if cfg.SaveSlot != "slot-1" {
		t.Errorf("save_slot = %q, want slot-1", cfg.SaveSlot)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farm.yaml")
	data := "seed: 99\napi_port: 9000\nfarm_name: Lakshmi Farm\nautosave_days: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("seed = %d, want 99", cfg.Seed)
	}
	if cfg.APIPort != 9000 {
		t.Errorf("api_port = %d, want 9000", cfg.APIPort)
	}
	if cfg.FarmName != "Lakshmi Farm" {
		t.Errorf("farm_name = %q, want Lakshmi Farm", cfg.FarmName)
	}
	if cfg.AutosaveDays != 3 {
		t.Errorf("autosave_days = %d, want 3", cfg.AutosaveDays)
	}
	// Untouched keys keep defaults.
	if cfg.DBPath != "data/harvest.db" {
		t.Errorf("db_path = %q, want default", cfg.DBPath)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("seed: [not a number"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed yaml")
	}
}

func TestLoadEnvSecrets(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "anthro-key")
	t.Setenv("FARMSIM_ADMIN_KEY", "admin-key")
	t.Setenv("RANDOM_ORG_KEY", "rng-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AnthropicKey != "anthro-key" {
		t.Errorf("anthropic key = %q", cfg.AnthropicKey)
	}
	if cfg.AdminKey != "admin-key" {
		t.Errorf("admin key = %q", cfg.AdminKey)
	}
	if cfg.RandomOrgKey != "rng-key" {
		t.Errorf("random.org key = %q", cfg.RandomOrgKey)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad port", mutate: func(c *Config) { c.APIPort = 0 }},
		{name: "bad interval", mutate: func(c *Config) { c.TickIntervalMs = -5 }},
		{name: "negative speed", mutate: func(c *Config) { c.Speed = -1 }},
		{name: "bad autosave", mutate: func(c *Config) { c.AutosaveDays = 0 }},
		{name: "missing player", mutate: func(c *Config) { c.PlayerID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// Package config loads the simulation's tunable settings from a YAML file,
// with secrets taken from the environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything adjustable without a rebuild.
type Config struct {
	Seed        int64  `yaml:"seed"`
	DBPath      string `yaml:"db_path"`
	SnapshotDir string `yaml:"snapshot_dir"`
	APIPort     int    `yaml:"api_port"`

	PlayerID string `yaml:"player_id"`
	SaveSlot string `yaml:"save_slot"`
	DeviceID string `yaml:"device_id"`
	FarmName string `yaml:"farm_name"`

	TickIntervalMs int     `yaml:"tick_interval_ms"`
	Speed          float64 `yaml:"speed"`
	AutosaveDays   int     `yaml:"autosave_days"` // Save every N sim-days

	// Secrets, never read from the file.
	AnthropicKey string `yaml:"-"`
	AdminKey     string `yaml:"-"`
	RandomOrgKey string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Seed:           42,
		DBPath:         "data/harvest.db",
		SnapshotDir:    "data/snapshots",
		APIPort:        8080,
		PlayerID:       "player-1",
		SaveSlot:       "slot-1",
		DeviceID:       hostDeviceID(),
		FarmName:       "Asha Farm",
		TickIntervalMs: 1000,
		Speed:          1.0,
		AutosaveDays:   7,
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment secrets. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.AdminKey = os.Getenv("FARMSIM_ADMIN_KEY")
	cfg.RandomOrgKey = os.Getenv("RANDOM_ORG_KEY")

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port %d out of range", c.APIPort)
	}
	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMs)
	}
	if c.Speed < 0 {
		return fmt.Errorf("speed must be non-negative, got %g", c.Speed)
	}
	if c.AutosaveDays <= 0 {
		return fmt.Errorf("autosave_days must be positive, got %d", c.AutosaveDays)
	}
	if c.PlayerID == "" || c.SaveSlot == "" {
		return fmt.Errorf("player_id and save_slot are required")
	}
	return nil
}

func hostDeviceID() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown-device"
	}
	return host
}

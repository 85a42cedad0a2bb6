// Package config loads and validates the server configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the server configuration.
type Config struct {
	Addr          string  `toml:"addr"`
	StaticDir     string  `toml:"static_dir"`
	DBPath        string  `toml:"db_path"`
	PythonBin     string  `toml:"python_bin"`
	ScriptPath    string  `toml:"script_path"`
	MaxHands      int     `toml:"max_hands"`
	MinConfidence float64 `toml:"min_confidence"`
	DefaultTempo  float64 `toml:"default_tempo"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Addr:          ":8001",
		MaxHands:      2,
		MinConfidence: 0.5,
		DefaultTempo:  120,
	}
}

// Load reads a TOML config file, fills unset fields with defaults and
// validates the result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.MaxHands == 0 {
		cfg.MaxHands = def.MaxHands
	}
	if cfg.MinConfidence == 0 {
		cfg.MinConfidence = def.MinConfidence
	}
	if cfg.DefaultTempo == 0 {
		cfg.DefaultTempo = def.DefaultTempo
	}
}

// Validate checks configuration invariants.
func Validate(cfg Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if cfg.MaxHands < 1 || cfg.MaxHands > 2 {
		return fmt.Errorf("max_hands must be 1 or 2, got %d", cfg.MaxHands)
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be within [0,1], got %g", cfg.MinConfidence)
	}
	if cfg.DefaultTempo <= 0 {
		return fmt.Errorf("default_tempo must be positive, got %g", cfg.DefaultTempo)
	}
	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err != nil || !info.IsDir() {
			return fmt.Errorf("static_dir %s is not a directory", cfg.StaticDir)
		}
	}
	return nil
}

// DefaultDBPath returns the database location under the user's home
// directory, creating the data directory if needed.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".etherial")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}

	return filepath.Join(dataDir, "etherial.db"), nil
}

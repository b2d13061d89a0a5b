package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that supply CLI flag defaults.
const (
	EnvConfig   = "TETRA_CONFIG"
	EnvDB       = "TETRA_DB"
	EnvLogLevel = "TETRA_LOG_LEVEL"
)

// FileName is the config file looked up in the search directories.
const FileName = "tetra.yaml"

// Load loads and validates the configuration.
// Search order: customPath -> ~/.tetra/tetra.yaml -> ./configs/tetra.yaml -> embedded default
func Load(customPath string) (Config, error) {
	cfg, err := load(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func load(customPath string) (Config, error) {
	// An explicit path must exist and parse.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if path := userConfigPath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultYAML)
	if err != nil {
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// Parse decodes a configuration file. Rules missing from data keep their
// default values; a file without a cards section keeps the built-in pool.
func Parse(data []byte) (Config, error) {
	cfg, err := parse(data)
	if err != nil {
		return Config{}, err
	}
	if cfg.Cards == nil {
		cfg.Cards = defaultCards()
	}
	return cfg, nil
}

func parse(data []byte) (Config, error) {
	cfg := Config{Rules: DefaultConfig().Rules}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultCards returns the embedded card pool.
func defaultCards() []CardEntry {
	if cfg, err := parse(defaultYAML); err == nil && len(cfg.Cards) > 0 {
		return cfg.Cards
	}
	return DefaultConfig().Cards
}

// userConfigPath returns ~/.tetra/tetra.yaml, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tetra", FileName)
}

// LoadEnv reads .env files into the process environment without overriding
// variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// EnvOr returns the value of key, or fallback when it is unset or empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	_ "embed"

	"github.com/vovakirdan/tetra/internal/core"
)

//go:embed defaults/tetra.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in rules with a small fallback pool.
// It is only used when the embedded YAML cannot be parsed.
func DefaultConfig() Config {
	rc := core.DefaultConfig()
	return Config{
		Rules: Rules{
			MaxBlocked:   rc.MaxBlocked,
			BattleSystem: rc.BattleSystem,
			DiceSides:    rc.DiceSides,
		},
		Cards: []CardEntry{
			{Name: "Goblin", Card: "1P11@81"},
			{Name: "Fastitocalon", Card: "3P22@A4"},
			{Name: "Cockatrice", Card: "4M24@C5"},
			{Name: "Belhelmel", Card: "6A56@33"},
			{Name: "Jelleye", Card: "8X35@A1"},
		},
	}
}

// Package config provides YAML-based rules and card pool loading for the
// game, with an embedded default and .env support for CLI defaults.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tetra/internal/core"
	"github.com/vovakirdan/tetra/internal/registry"
)

// Config is the full configuration file.
type Config struct {
	Rules Rules       `yaml:"rules"`
	Cards []CardEntry `yaml:"cards"`
}

// Rules controls game setup and battles.
type Rules struct {
	MaxBlocked   int    `yaml:"max_blocked"`   // upper bound of the random blocked-cell count
	BattleSystem string `yaml:"battle_system"` // registry id, "original" or "dice"
	DiceSides    int    `yaml:"dice_sides"`    // faces per die for the dice system
}

// CardEntry is one named card of the pool, in card notation.
type CardEntry struct {
	Name string `yaml:"name"`
	Card string `yaml:"card"`
}

// Validate checks the rules and parses every card. Battle systems are
// looked up in the registry, so callers must have linked them in.
func (c Config) Validate() error {
	var errs []error

	if c.Rules.MaxBlocked < 0 || c.Rules.MaxBlocked > core.MaxBlockedCells {
		errs = append(errs, fmt.Errorf("rules.max_blocked %d outside [0, %d]", c.Rules.MaxBlocked, core.MaxBlockedCells))
	}
	if !registry.Exists(c.Rules.BattleSystem) {
		errs = append(errs, fmt.Errorf("rules.battle_system %q is not registered", c.Rules.BattleSystem))
	}
	if c.Rules.DiceSides < 0 {
		errs = append(errs, fmt.Errorf("rules.dice_sides %d is negative", c.Rules.DiceSides))
	}

	if len(c.Cards) == 0 {
		errs = append(errs, errors.New("cards: pool is empty"))
	}
	for i, e := range c.Cards {
		if _, err := core.ParseCard(e.Card); err != nil {
			errs = append(errs, fmt.Errorf("cards[%d] %q: %w", i, e.Name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Pool parses the card pool in file order.
func (c Config) Pool() ([]core.Card, error) {
	pool := make([]core.Card, 0, len(c.Cards))
	for i, e := range c.Cards {
		card, err := core.ParseCard(e.Card)
		if err != nil {
			return nil, fmt.Errorf("config: cards[%d] %q: %w", i, e.Name, err)
		}
		pool = append(pool, card)
	}
	return pool, nil
}

// Runtime returns the settings the battle registry needs.
func (c Config) Runtime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		Seed:         seed,
		BattleSystem: c.Rules.BattleSystem,
		DiceSides:    c.Rules.DiceSides,
		MaxBlocked:   c.Rules.MaxBlocked,
	}
}

// Package battle implements the battle systems that decide fights between
// an attacking and a defending card.
package battle

import (
	"github.com/vovakirdan/tetra/internal/core"
	"github.com/vovakirdan/tetra/internal/registry"
)

func init() {
	registry.Register("original", func(core.RuntimeConfig) registry.Resolver {
		return Original{}
	})
	registry.Register("dice", func(cfg core.RuntimeConfig) registry.Resolver {
		return NewDice(cfg.DiceSides)
	})
}

// Original is the standard battle system. Each side's stat nibble expands
// to a real value in [16*s, 16*s+15]; each side then loses a roll in
// [0, real] and the higher remainder wins. Ties go to the defender.
type Original struct{}

// ID returns the registry id.
func (Original) ID() string { return "original" }

// Title returns the display name.
func (Original) Title() string { return "Original (hex rolls)" }

// Resolve fights attacker against defender. RNG draws happen in a fixed
// order: attacker real, defender real, attack roll, defense roll.
func (Original) Resolve(attacker, defender core.Card, rng core.RNG) core.Outcome {
	attPick, defPick := core.SelectBattleStats(attacker, defender)

	attReal := sampleReal(attPick.Value, rng)
	defReal := sampleReal(defPick.Value, rng)

	attRoll := rng.IntRange(0, attReal)
	defRoll := rng.IntRange(0, defReal)

	att := core.BattleStat{Pick: attPick, Real: attReal, Roll: attRoll, Final: attReal - attRoll}
	def := core.BattleStat{Pick: defPick, Real: defReal, Roll: defRoll, Final: defReal - defRoll}

	return core.Outcome{
		Winner:  core.DecideWinner(att.Final, def.Final),
		Attack:  att,
		Defense: def,
	}
}

func sampleReal(s core.Stat, rng core.RNG) int {
	lo, hi := s.Range()
	return rng.IntRange(lo, hi)
}

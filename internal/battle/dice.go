package battle

import (
	"fmt"

	"github.com/vovakirdan/tetra/internal/core"
)

// DefaultDiceSides is used when the configured die is smaller than a coin.
const DefaultDiceSides = 6

// Dice is an alternative battle system: each side rolls one die per point
// of its selected stat and sums the faces. A zero stat rolls nothing.
type Dice struct {
	Sides int
}

// NewDice creates a dice system with the given number of faces.
func NewDice(sides int) Dice {
	if sides < 2 {
		sides = DefaultDiceSides
	}
	return Dice{Sides: sides}
}

// ID returns the registry id.
func (Dice) ID() string { return "dice" }

// Title returns the display name.
func (d Dice) Title() string { return fmt.Sprintf("Dice (d%d per stat point)", d.Sides) }

// Resolve fights attacker against defender. The attacker rolls all of its
// dice before the defender rolls.
func (d Dice) Resolve(attacker, defender core.Card, rng core.RNG) core.Outcome {
	attPick, defPick := core.SelectBattleStats(attacker, defender)

	att := d.roll(attPick, rng)
	def := d.roll(defPick, rng)

	return core.Outcome{
		Winner:  core.DecideWinner(att.Final, def.Final),
		Attack:  att,
		Defense: def,
	}
}

func (d Dice) roll(pick core.StatPick, rng core.RNG) core.BattleStat {
	sum := 0
	for range int(pick.Value) {
		sum += rng.IntRange(1, d.Sides)
	}
	return core.BattleStat{Pick: pick, Real: sum, Final: sum}
}

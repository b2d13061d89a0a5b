package game

import (
	"github.com/vovakirdan/tetra/internal/core"
	"github.com/vovakirdan/tetra/internal/registry"
)

// FlipCause is why a card changed hands.
type FlipCause uint8

const (
	// FlipDirect: the placed card pointed at a card that did not point back.
	FlipDirect FlipCause = iota
	// FlipBattle: the loser of a battle.
	FlipBattle
	// FlipCombo: pointed at by a defender that just lost a battle.
	FlipCombo
)

func (c FlipCause) String() string {
	switch c {
	case FlipDirect:
		return "direct"
	case FlipBattle:
		return "battle"
	case FlipCombo:
		return "combo"
	default:
		return "unknown"
	}
}

// Battle records one fight between the placed card and a neighbor.
type Battle struct {
	Attacker     CardID
	AttackerCell int
	Defender     CardID
	DefenderCell int
	Outcome      core.Outcome
}

// FlipEvent is one ownership change computed for a placement.
// Battle is set only when Cause is FlipBattle. A battle lost by a placed
// card that already changed hands earlier in the same placement still
// yields an event, with From == To.
type FlipEvent struct {
	Card   CardID
	Cell   int
	From   core.Player
	To     core.Player
	Cause  FlipCause
	Battle *Battle
}

// ComputeFlips works out every flip caused by placing card placed on cell.
// The board and card table are read, never written; a private ownership
// overlay tracks flips already recorded so later directions see them.
// Directions are processed clockwise from Up.
func ComputeFlips(b *Board, cards *CardTable, placed CardID, cell int, resolver registry.Resolver, rng core.RNG) []FlipEvent {
	if id, ok := b.Occupant(cell); !ok || id != placed {
		panic("game: placed card is not on its cell")
	}

	placer := cards.mustGet(placed).Owner
	attacker := cards.mustGet(placed).Card
	owners := cards.owners()

	var events []FlipEvent
	flip := func(id CardID, at int, to core.Player, cause FlipCause, battle *Battle) {
		events = append(events, FlipEvent{
			Card:   id,
			Cell:   at,
			From:   owners[id],
			To:     to,
			Cause:  cause,
			Battle: battle,
		})
		owners[id] = to
	}

	for _, d := range attacker.Arrows.Directions() {
		target, ok := Neighbor(cell, d)
		if !ok {
			continue
		}
		defID, ok := b.Occupant(target)
		if !ok || owners[defID] == placer {
			continue
		}

		defender := cards.mustGet(defID).Card
		if !defender.PointsTo(d.Opposite()) {
			flip(defID, target, placer, FlipDirect, nil)
			continue
		}

		battle := &Battle{
			Attacker:     placed,
			AttackerCell: cell,
			Defender:     defID,
			DefenderCell: target,
			Outcome:      resolver.Resolve(attacker, defender, rng),
		}

		if battle.Outcome.Winner == core.Defender {
			flip(placed, cell, owners[defID], FlipBattle, battle)
			continue
		}

		loser := owners[defID]
		flip(defID, target, placer, FlipBattle, battle)

		for _, cd := range defender.Arrows.Directions() {
			comboCell, ok := Neighbor(target, cd)
			if !ok {
				continue
			}
			comboID, ok := b.Occupant(comboCell)
			if !ok || owners[comboID] != loser {
				continue
			}
			flip(comboID, comboCell, placer, FlipCombo, nil)
		}
	}

	return events
}

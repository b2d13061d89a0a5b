package game

import (
	"fmt"

	"github.com/vovakirdan/tetra/internal/core"
)

// EntryKind tags a log entry.
type EntryKind uint8

const (
	EntryPlace EntryKind = iota
	EntryBattle
	EntryFlip
	EntryNextTurn
	EntryGameOver
)

// Entry is one event in a game's history. Fields not used by Kind are zero.
type Entry struct {
	Kind   EntryKind
	Player core.Player // placer, new owner, next player or winner
	Card   CardID
	Cell   int
	Combo  bool    // EntryFlip: flipped by a combo
	Battle *Battle // EntryBattle
	Draw   bool    // EntryGameOver
}

func (e Entry) String() string {
	switch e.Kind {
	case EntryPlace:
		return fmt.Sprintf("place %s card=%d cell=%X", e.Player, e.Card, e.Cell)
	case EntryBattle:
		o := e.Battle.Outcome
		return fmt.Sprintf("battle %X->%X %s:%d-%d=%d vs %s:%d-%d=%d winner=%s",
			e.Battle.AttackerCell, e.Battle.DefenderCell,
			o.Attack.Pick.Kind, o.Attack.Real, o.Attack.Roll, o.Attack.Final,
			o.Defense.Pick.Kind, o.Defense.Real, o.Defense.Roll, o.Defense.Final,
			o.Winner)
	case EntryFlip:
		if e.Combo {
			return fmt.Sprintf("flip cell=%X to=%s combo", e.Cell, e.Player)
		}
		return fmt.Sprintf("flip cell=%X to=%s", e.Cell, e.Player)
	case EntryNextTurn:
		return fmt.Sprintf("turn %s", e.Player)
	case EntryGameOver:
		if e.Draw {
			return "game-over draw"
		}
		return fmt.Sprintf("game-over winner=%s", e.Player)
	default:
		return "unknown"
	}
}

// Log is an append-only record of a game.
type Log struct {
	entries []Entry
}

// Append adds an entry.
func (l *Log) Append(e Entry) {
	l.entries = append(l.entries, e)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of all entries.
func (l *Log) Entries() []Entry {
	return l.Since(0)
}

// Since returns a copy of the entries from index i on.
func (l *Log) Since(i int) []Entry {
	if i < 0 {
		i = 0
	}
	if i >= len(l.entries) {
		return nil
	}
	out := make([]Entry, len(l.entries)-i)
	copy(out, l.entries[i:])
	return out
}

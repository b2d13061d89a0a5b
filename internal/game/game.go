// Package game implements the board, the flip/combo engine and the turn
// controller. It has no I/O; callers drive it through SubmitMove and read it
// back through Snapshot and Hand.
package game

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetra/internal/battle"
	"github.com/vovakirdan/tetra/internal/core"
	"github.com/vovakirdan/tetra/internal/registry"
)

// Status is the controller state.
type Status uint8

const (
	StatusAwaitingMove Status = iota
	StatusGameOver
)

// Config controls game setup.
type Config struct {
	// Pool is the card pool hands are dealt from. Ignored when Hands is set.
	Pool []core.Card

	// Hands fixes both hands instead of dealing from Pool.
	Hands *[2]Hand

	// MaxBlocked bounds the random blocked-cell count (0-6).
	MaxBlocked int

	// BlockedCells fixes the blocked cells instead of drawing them.
	// A non-nil empty slice means no blocked cells.
	BlockedCells []int

	// Resolver decides battles. Nil means the original battle system.
	Resolver registry.Resolver

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// MoveResult describes an accepted move.
type MoveResult struct {
	Player core.Player
	Card   CardID
	Cell   int
	Flips  []FlipEvent
	Next   core.Player // player to move; meaningless when Over
	Over   bool
}

// Game is one match. It is not safe for concurrent use.
type Game struct {
	board    Board
	cards    CardTable
	played   [2][HandSize]bool
	current  core.Player
	moves    int
	status   Status
	winner   core.Player
	draw     bool
	rng      core.RNG
	resolver registry.Resolver
	log      Log
	logger   *log.Logger
}

// New sets up a game. All randomness comes from rng, in this order: the
// blocked-cell count, each blocked cell, P1's five pool picks, P2's five.
// Draws are skipped for whatever cfg fixes.
func New(rng core.RNG, cfg Config) (*Game, error) {
	g := &Game{
		rng:      rng,
		resolver: cfg.Resolver,
		logger:   cfg.Logger,
		current:  core.P1,
	}
	if g.resolver == nil {
		g.resolver = battle.Original{}
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}

	if cfg.Hands == nil && len(cfg.Pool) == 0 {
		return nil, errors.New("game: empty card pool")
	}

	var err error
	if g.board, err = setupBoard(rng, cfg); err != nil {
		return nil, err
	}

	for _, p := range []core.Player{core.P1, core.P2} {
		for i := range HandSize {
			var card core.Card
			if cfg.Hands != nil {
				card = cfg.Hands[p][i]
			} else {
				card = cfg.Pool[rng.IntRange(0, len(cfg.Pool)-1)]
			}
			g.cards[HandCardID(p, i)] = OwnedCard{Card: card, Owner: p}
		}
	}

	g.log.Append(Entry{Kind: EntryNextTurn, Player: g.current})
	g.logger.Debug("game created", "blocked", len(g.board.BlockedCells()), "system", g.resolver.ID())

	return g, nil
}

// setupBoard builds the fixed layout from cfg, or draws the blocked-cell
// count and cells from rng.
func setupBoard(rng core.RNG, cfg Config) (Board, error) {
	if cfg.BlockedCells != nil {
		return NewBoardWithBlocked(cfg.BlockedCells)
	}
	if cfg.MaxBlocked < 0 || cfg.MaxBlocked > core.MaxBlockedCells {
		return Board{}, fmt.Errorf("game: max blocked %d outside [0, %d]", cfg.MaxBlocked, core.MaxBlockedCells)
	}
	return InitializeBoard(rng.IntRange(0, cfg.MaxBlocked), rng)
}

// SubmitMove plays hand slot handIndex of player onto cell.
// Rejected moves return a *MoveError and leave the game untouched.
func (g *Game) SubmitMove(player core.Player, handIndex, cell int) (MoveResult, error) {
	reject := func(err error) (MoveResult, error) {
		return MoveResult{}, &MoveError{Player: player, HandIndex: handIndex, Cell: cell, Err: err}
	}

	if g.status == StatusGameOver {
		return reject(ErrGameOver)
	}
	if player != g.current {
		return reject(ErrOutOfTurn)
	}
	if handIndex < 0 || handIndex >= HandSize || g.played[player][handIndex] {
		return reject(ErrInvalidHandIndex)
	}

	id := HandCardID(player, handIndex)
	if err := g.board.Place(cell, id); err != nil {
		return reject(err)
	}
	g.played[player][handIndex] = true
	g.log.Append(Entry{Kind: EntryPlace, Player: player, Card: id, Cell: cell})
	g.logger.Debug("card placed", "player", player, "card", g.cards[id].Card, "cell", fmt.Sprintf("%X", cell))

	flips := ComputeFlips(&g.board, &g.cards, id, cell, g.resolver, g.rng)
	g.apply(flips)

	g.moves++
	g.advance()
	g.checkInvariants()

	return MoveResult{
		Player: player,
		Card:   id,
		Cell:   cell,
		Flips:  flips,
		Next:   g.current,
		Over:   g.status == StatusGameOver,
	}, nil
}

// apply sets the new owner of every flipped card, in event order.
func (g *Game) apply(events []FlipEvent) {
	for _, ev := range events {
		if id, ok := g.board.Occupant(ev.Cell); !ok || id != ev.Card {
			panic(fmt.Sprintf("game: flip of card %d references cell %X which does not hold it", ev.Card, ev.Cell))
		}
		entry := g.cards.mustGet(ev.Card)
		if entry.Owner != ev.From {
			panic(fmt.Sprintf("game: flip of card %d expected owner %s, found %s", ev.Card, ev.From, entry.Owner))
		}

		if ev.Battle != nil {
			g.log.Append(Entry{Kind: EntryBattle, Battle: ev.Battle})
			o := ev.Battle.Outcome
			g.logger.Debug("battle",
				"attacker", fmt.Sprintf("%X", ev.Battle.AttackerCell),
				"defender", fmt.Sprintf("%X", ev.Battle.DefenderCell),
				"attack", o.Attack.Final,
				"defense", o.Defense.Final,
				"winner", o.Winner)
		}
		if ev.From == ev.To {
			continue
		}
		entry.Owner = ev.To
		g.log.Append(Entry{Kind: EntryFlip, Player: ev.To, Card: ev.Card, Cell: ev.Cell, Combo: ev.Cause == FlipCombo})
	}
}

// advance hands the turn to the opponent when they can move, keeps it when
// only the current player can, and ends the game when neither can.
func (g *Game) advance() {
	next := g.current.Opponent()
	switch {
	case g.canMove(next):
		g.current = next
	case g.canMove(g.current):
	default:
		g.finish()
		return
	}
	g.log.Append(Entry{Kind: EntryNextTurn, Player: g.current})
}

func (g *Game) canMove(p core.Player) bool {
	if !g.board.HasEmptyCell() {
		return false
	}
	for _, played := range g.played[p] {
		if !played {
			return true
		}
	}
	return false
}

func (g *Game) finish() {
	g.status = StatusGameOver
	s1, s2 := g.Score(core.P1), g.Score(core.P2)
	switch {
	case s1 > s2:
		g.winner = core.P1
	case s2 > s1:
		g.winner = core.P2
	default:
		g.draw = true
	}
	g.log.Append(Entry{Kind: EntryGameOver, Player: g.winner, Draw: g.draw})
	g.logger.Debug("game over", "p1", s1, "p2", s2, "draw", g.draw)
}

// checkInvariants panics if the board and counters disagree.
func (g *Game) checkInvariants() {
	empty, blocked, occupied := g.board.Counts()
	s1, s2 := g.Score(core.P1), g.Score(core.P2)
	if s1+s2 != occupied || occupied != g.moves || empty+blocked+occupied != BoardCells {
		panic(fmt.Sprintf("game: invariant broken: p1=%d p2=%d empty=%d blocked=%d moves=%d",
			s1, s2, empty, blocked, g.moves))
	}
}

// Current returns the player to move.
func (g *Game) Current() core.Player { return g.current }

// MovesPlayed returns the number of accepted moves.
func (g *Game) MovesPlayed() int { return g.moves }

// Status returns the controller state.
func (g *Game) Status() Status { return g.status }

// IsOver reports whether the game has ended.
func (g *Game) IsOver() bool { return g.status == StatusGameOver }

// Winner returns the winning player. ok is false while the game is running
// or when it ended in a draw.
func (g *Game) Winner() (p core.Player, ok bool) {
	if g.status != StatusGameOver || g.draw {
		return 0, false
	}
	return g.winner, true
}

// IsDraw reports whether the game ended level.
func (g *Game) IsDraw() bool {
	return g.status == StatusGameOver && g.draw
}

// Score returns the number of board cards p owns.
func (g *Game) Score(p core.Player) int {
	n := 0
	for _, c := range g.board {
		if c.State == CellOccupied && g.cards[c.Card].Owner == p {
			n++
		}
	}
	return n
}

// Log returns the game's event log.
func (g *Game) Log() *Log { return &g.log }

// Resolver returns the battle system in use.
func (g *Game) Resolver() registry.Resolver { return g.resolver }

// Clone returns an independent copy of the game that draws battle values
// from rng. A nil rng shares the original's stream.
func (g *Game) Clone(rng core.RNG) *Game {
	c := *g
	if rng != nil {
		c.rng = rng
	}
	c.log = Log{entries: g.log.Entries()}
	return &c
}

// HandCard is one slot of a player's hand.
type HandCard struct {
	Index  int
	Card   core.Card
	Played bool
}

// Hand returns p's five hand slots, played ones included.
func (g *Game) Hand(p core.Player) []HandCard {
	hand := make([]HandCard, HandSize)
	for i := range HandSize {
		hand[i] = HandCard{
			Index:  i,
			Card:   g.cards[HandCardID(p, i)].Card,
			Played: g.played[p][i],
		}
	}
	return hand
}

// CellView is a read-only view of one cell.
type CellView struct {
	State CellState
	Card  core.Card
	ID    CardID
	Owner core.Player
}

// Snapshot is a copy of the public game state.
type Snapshot struct {
	Cells   [BoardCells]CellView
	Current core.Player
	Moves   int
	Over    bool
	Draw    bool
	Winner  core.Player
	Scores  [2]int
}

// Snapshot returns a copy of the board and status.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Current: g.current,
		Moves:   g.moves,
		Over:    g.status == StatusGameOver,
		Draw:    g.draw,
		Winner:  g.winner,
		Scores:  [2]int{g.Score(core.P1), g.Score(core.P2)},
	}
	for i, c := range g.board {
		s.Cells[i].State = c.State
		if c.State == CellOccupied {
			s.Cells[i].ID = c.Card
			s.Cells[i].Card = g.cards[c.Card].Card
			s.Cells[i].Owner = g.cards[c.Card].Owner
		}
	}
	return s
}

package game

import (
	"errors"

	"github.com/vovakirdan/tetra/internal/core"
)

// NumCandidates is the number of hands offered during hand selection.
const NumCandidates = 3

// PreGame is the optional hand-selection phase. Three candidate hands are
// offered, P1 picks one, then P2 picks one of the remaining two. Start turns
// the picks into a Game that keeps drawing from the same RNG.
type PreGame struct {
	rng        core.RNG
	cfg        Config
	board      Board
	candidates [NumCandidates]Hand
	picks      [2]int
	current    core.Player
}

// NewPreGame sets up the board exactly like New, then deals three candidate
// hands of five pool picks each, in order. Fixed candidates skip the deal.
// cfg.Hands is ignored.
func NewPreGame(rng core.RNG, cfg Config, candidates *[NumCandidates]Hand) (*PreGame, error) {
	if candidates == nil && len(cfg.Pool) == 0 {
		return nil, errors.New("game: empty card pool")
	}

	board, err := setupBoard(rng, cfg)
	if err != nil {
		return nil, err
	}

	p := &PreGame{
		rng:     rng,
		cfg:     cfg,
		board:   board,
		picks:   [2]int{-1, -1},
		current: core.P1,
	}
	if candidates != nil {
		p.candidates = *candidates
		return p, nil
	}
	for c := range NumCandidates {
		for i := range HandSize {
			p.candidates[c][i] = cfg.Pool[rng.IntRange(0, len(cfg.Pool)-1)]
		}
	}
	return p, nil
}

// Pick records player's choice of candidate hand n.
// Rejected picks return a *PickError and change nothing.
func (p *PreGame) Pick(player core.Player, n int) error {
	reject := func(err error) error {
		return &PickError{Player: player, Pick: n, Err: err}
	}

	if p.Ready() {
		return reject(ErrPicksDone)
	}
	if player != p.current {
		return reject(ErrOutOfTurn)
	}
	if n < 0 || n >= NumCandidates {
		return reject(ErrInvalidPick)
	}
	if p.picks[player.Opponent()] == n {
		return reject(ErrHandTaken)
	}

	p.picks[player] = n
	p.current = player.Opponent()
	return nil
}

// Ready reports whether both players have picked.
func (p *PreGame) Ready() bool {
	return p.picks[core.P1] >= 0 && p.picks[core.P2] >= 0
}

// Current returns the player to pick. Meaningless once Ready.
func (p *PreGame) Current() core.Player { return p.current }

// Picks returns the candidate index each player chose, -1 for none yet.
func (p *PreGame) Picks() [2]int { return p.picks }

// Candidates returns the offered hands.
func (p *PreGame) Candidates() [NumCandidates]Hand { return p.candidates }

// BlockedCells returns the blocked cells in ascending order, never nil.
func (p *PreGame) BlockedCells() []int {
	return append([]int{}, p.board.BlockedCells()...)
}

// Start creates the game from the picked hands. Battles continue on the
// pre-game RNG stream.
func (p *PreGame) Start() (*Game, error) {
	if !p.Ready() {
		return nil, ErrPicksPending
	}
	hands := [2]Hand{
		p.candidates[p.picks[core.P1]],
		p.candidates[p.picks[core.P2]],
	}
	cfg := p.cfg
	cfg.BlockedCells = p.BlockedCells()
	cfg.Hands = &hands
	return New(p.rng, cfg)
}

package game

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tetra/internal/core"
)

// Move rejection reasons. A rejected move never changes the game.
var (
	ErrOutOfTurn        = errors.New("not this player's turn")
	ErrGameOver         = errors.New("game is already over")
	ErrInvalidHandIndex = errors.New("hand index is not a playable card")
	ErrInvalidCell      = errors.New("cell is outside the board")
	ErrCellBlocked      = errors.New("cell is blocked")
	ErrCellOccupied     = errors.New("cell is occupied")
)

// MoveError describes a rejected move. It wraps one of the Err* values.
type MoveError struct {
	Player    core.Player
	HandIndex int
	Cell      int
	Err       error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%s: card %d to cell %X: %v", e.Player, e.HandIndex, e.Cell, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// Hand selection rejection reasons.
var (
	ErrInvalidPick  = errors.New("no such candidate hand")
	ErrHandTaken    = errors.New("candidate hand already picked")
	ErrPicksDone    = errors.New("hand selection is complete")
	ErrPicksPending = errors.New("hand selection is not complete")
)

// PickError describes a rejected hand pick. It wraps one of the Err* values.
type PickError struct {
	Player core.Player
	Pick   int
	Err    error
}

func (e *PickError) Error() string {
	return fmt.Sprintf("%s: pick %d: %v", e.Player, e.Pick, e.Err)
}

func (e *PickError) Unwrap() error {
	return e.Err
}

package game

import (
	"fmt"

	"github.com/vovakirdan/tetra/internal/core"
)

// BoardSide is the width and height of the board.
const BoardSide = 4

// BoardCells is the number of cells on the board.
const BoardCells = BoardSide * BoardSide

var grid = core.NewRect(0, 0, BoardSide, BoardSide)

// CardID indexes the game's card table.
type CardID uint8

// CellState is the state of a single board cell.
type CellState uint8

const (
	CellEmpty CellState = iota
	CellBlocked
	CellOccupied
)

func (s CellState) String() string {
	switch s {
	case CellEmpty:
		return "empty"
	case CellBlocked:
		return "blocked"
	case CellOccupied:
		return "occupied"
	default:
		return "unknown"
	}
}

// Cell is a board cell. Card is only meaningful when State is CellOccupied.
type Cell struct {
	State CellState
	Card  CardID
}

// Board is the 4x4 grid, indexed row-major: cell = y*4 + x.
//
//	0 | 1 | 2 | 3
//	4 | 5 | 6 | 7
//	8 | 9 | A | B
//	C | D | E | F
type Board [BoardCells]Cell

// ValidCell reports whether cell is on the board.
func ValidCell(cell int) bool {
	return cell >= 0 && cell < BoardCells
}

// Neighbor returns the cell one step from cell in direction d.
// Returns false when that step leaves the grid.
func Neighbor(cell int, d core.Direction) (int, bool) {
	if !ValidCell(cell) {
		return 0, false
	}
	next := grid.PointAt(cell).Step(d)
	if !grid.Contains(next) {
		return 0, false
	}
	return grid.Index(next), true
}

// InitializeBoard creates a board with blockedCount distinct blocked cells
// drawn from rng. Each draw picks an index into the cells still unblocked,
// so exactly blockedCount values are consumed.
func InitializeBoard(blockedCount int, rng core.RNG) (Board, error) {
	var b Board
	if blockedCount < 0 || blockedCount > core.MaxBlockedCells {
		return b, fmt.Errorf("game: blocked count %d outside [0, %d]", blockedCount, core.MaxBlockedCells)
	}

	free := make([]int, BoardCells)
	for i := range free {
		free[i] = i
	}
	for range blockedCount {
		idx := rng.IntRange(0, len(free)-1)
		b[free[idx]].State = CellBlocked
		free = append(free[:idx], free[idx+1:]...)
	}
	return b, nil
}

// NewBoardWithBlocked creates a board with a fixed set of blocked cells.
func NewBoardWithBlocked(cells []int) (Board, error) {
	var b Board
	if len(cells) > core.MaxBlockedCells {
		return b, fmt.Errorf("game: %d blocked cells, at most %d allowed", len(cells), core.MaxBlockedCells)
	}
	for _, c := range cells {
		if !ValidCell(c) {
			return b, fmt.Errorf("game: blocked cell %d outside the board", c)
		}
		if b[c].State == CellBlocked {
			return b, fmt.Errorf("game: blocked cell %X listed twice", c)
		}
		b[c].State = CellBlocked
	}
	return b, nil
}

// IsPlayable reports whether a card may ever be placed on cell.
func (b *Board) IsPlayable(cell int) bool {
	return ValidCell(cell) && b[cell].State != CellBlocked
}

// Occupant returns the card on cell, if any.
func (b *Board) Occupant(cell int) (CardID, bool) {
	if !ValidCell(cell) || b[cell].State != CellOccupied {
		return 0, false
	}
	return b[cell].Card, true
}

// Place puts card id on cell. The board is unchanged when an error is returned.
func (b *Board) Place(cell int, id CardID) error {
	if !ValidCell(cell) {
		return ErrInvalidCell
	}
	switch b[cell].State {
	case CellBlocked:
		return ErrCellBlocked
	case CellOccupied:
		return ErrCellOccupied
	}
	b[cell] = Cell{State: CellOccupied, Card: id}
	return nil
}

// EmptyCells returns the empty cells in index order.
func (b *Board) EmptyCells() []int {
	var cells []int
	for i, c := range b {
		if c.State == CellEmpty {
			cells = append(cells, i)
		}
	}
	return cells
}

// HasEmptyCell returns true if at least one cell can still take a card.
func (b *Board) HasEmptyCell() bool {
	for _, c := range b {
		if c.State == CellEmpty {
			return true
		}
	}
	return false
}

// BlockedCells returns the blocked cells in index order.
func (b *Board) BlockedCells() []int {
	var cells []int
	for i, c := range b {
		if c.State == CellBlocked {
			cells = append(cells, i)
		}
	}
	return cells
}

// Counts returns the number of empty, blocked and occupied cells.
func (b *Board) Counts() (empty, blocked, occupied int) {
	for _, c := range b {
		switch c.State {
		case CellEmpty:
			empty++
		case CellBlocked:
			blocked++
		case CellOccupied:
			occupied++
		}
	}
	return empty, blocked, occupied
}

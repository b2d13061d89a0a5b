package headless

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/tetra/internal/core"
	"github.com/vovakirdan/tetra/internal/game"
)

// Error codes written as "error <code> <message>".
const (
	CodeOutOfTurn        = "out-of-turn"
	CodeGameOver         = "game-over"
	CodeInvalidHandIndex = "invalid-hand-index"
	CodeInvalidCell      = "invalid-cell"
	CodeCellBlocked      = "cell-blocked"
	CodeCellOccupied     = "cell-occupied"
	CodeBadCommand       = "bad-command"
	CodeNoGame           = "no-game"
	CodeInvalidPick      = "invalid-pick"
	CodeHandTaken        = "hand-taken"
	CodePicking          = "picking"
)

// ProtocolError is a reply-level failure.
type ProtocolError struct {
	Code string
	Msg  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("error %s %s", e.Code, e.Msg)
}

func badCommand(format string, args ...any) *ProtocolError {
	return &ProtocolError{Code: CodeBadCommand, Msg: fmt.Sprintf(format, args...)}
}

// moveErrorCode maps a rejected move to its protocol code.
func moveErrorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrGameOver):
		return CodeGameOver
	case errors.Is(err, game.ErrOutOfTurn):
		return CodeOutOfTurn
	case errors.Is(err, game.ErrInvalidHandIndex):
		return CodeInvalidHandIndex
	case errors.Is(err, game.ErrInvalidCell):
		return CodeInvalidCell
	case errors.Is(err, game.ErrCellBlocked):
		return CodeCellBlocked
	case errors.Is(err, game.ErrCellOccupied):
		return CodeCellOccupied
	default:
		return CodeBadCommand
	}
}

// pickErrorCode maps a rejected hand pick to its protocol code.
func pickErrorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrOutOfTurn):
		return CodeOutOfTurn
	case errors.Is(err, game.ErrInvalidPick):
		return CodeInvalidPick
	case errors.Is(err, game.ErrHandTaken):
		return CodeHandTaken
	default:
		return CodeBadCommand
	}
}

// DealCandidates is the candidates= value that deals candidate hands from the pool.
const DealCandidates = "deal"

// newArgs are the options of a "new" command.
type newArgs struct {
	seed       int64
	hasSeed    bool
	blocked    []int                          // nil means draw at random
	hands      *[2]game.Hand                  // fixed hands, no selection
	pick       bool                           // run hand selection first
	candidates *[game.NumCandidates]game.Hand // nil deals candidates from the pool
}

// setup renders the options that reproduce this game's setup for seed.
func (a newArgs) setup(seed int64) string {
	parts := []string{"seed=" + strconv.FormatInt(seed, 10)}
	if a.blocked != nil {
		parts = append(parts, "blocked="+FormatCells(a.blocked))
	}
	if a.hands != nil {
		parts = append(parts, "hands="+FormatHands(a.hands[:]))
	}
	if a.pick {
		if a.candidates != nil {
			parts = append(parts, "candidates="+FormatHands(a.candidates[:]))
		} else {
			parts = append(parts, "candidates="+DealCandidates)
		}
	}
	return strings.Join(parts, " ")
}

func parseNewArgs(args []string) (newArgs, error) {
	var a newArgs
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return a, badCommand("expected key=value, got %q", arg)
		}
		switch k {
		case "seed":
			seed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return a, badCommand("seed %q is not an integer", v)
			}
			a.seed, a.hasSeed = seed, true
		case "blocked":
			cells, err := ParseCellList(v)
			if err != nil {
				return a, badCommand("%v", err)
			}
			a.blocked = cells
		case "hands":
			hands, err := ParseHandList(v, 2)
			if err != nil {
				return a, badCommand("%v", err)
			}
			a.hands = &[2]game.Hand{hands[0], hands[1]}
		case "candidates":
			a.pick = true
			if v == DealCandidates {
				a.candidates = nil
				continue
			}
			hands, err := ParseHandList(v, game.NumCandidates)
			if err != nil {
				return a, badCommand("%v", err)
			}
			a.candidates = &[game.NumCandidates]game.Hand{hands[0], hands[1], hands[2]}
		default:
			return a, badCommand("unknown option %q", k)
		}
	}
	if a.hands != nil && a.pick {
		return a, badCommand("hands and candidates cannot be combined")
	}
	return a, nil
}

// ParseHandList parses n hands of card notation separated by ';', such as
// "[1P11@81,..];[4M24@C5,..]". Brackets around the list and each hand are
// optional.
func ParseHandList(s string, n int) ([]game.Hand, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	parts := strings.Split(s, ";")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d hands, got %d", n, len(parts))
	}
	hands := make([]game.Hand, n)
	for h, part := range parts {
		part = strings.TrimSuffix(strings.TrimPrefix(part, "["), "]")
		cards := strings.Split(part, ",")
		if len(cards) != game.HandSize {
			return nil, fmt.Errorf("hand %d: expected %d cards, got %d", h, game.HandSize, len(cards))
		}
		for i, c := range cards {
			card, err := core.ParseCard(strings.TrimSpace(c))
			if err != nil {
				return nil, fmt.Errorf("hand %d: %w", h, err)
			}
			hands[h][i] = card
		}
	}
	return hands, nil
}

// FormatHands renders hands as "[[c,c,c,c,c];[c,c,c,c,c]]".
func FormatHands(hands []game.Hand) string {
	parts := make([]string, len(hands))
	for h, hand := range hands {
		cards := make([]string, len(hand))
		for i, c := range hand {
			cards[i] = c.String()
		}
		parts[h] = "[" + strings.Join(cards, ",") + "]"
	}
	return "[" + strings.Join(parts, ";") + "]"
}

// ParseCellList parses hex cells such as "0,3,F" or "[0,3,F]".
// An empty list yields a non-nil empty slice.
func ParseCellList(s string) ([]int, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	cells := []int{}
	if s == "" {
		return cells, nil
	}
	for _, part := range strings.Split(s, ",") {
		c, err := parseCell(part)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, nil
}

func parseCell(s string) (int, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("cell %q is not a hex number", s)
	}
	return int(v), nil
}

func parsePlayer(s string) (core.Player, error) {
	switch strings.ToLower(s) {
	case "p1":
		return core.P1, nil
	case "p2":
		return core.P2, nil
	default:
		return 0, badCommand("unknown player %q", s)
	}
}

// FormatCells renders cells as "[0,3,F]".
func FormatCells(cells []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("%X", c)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func formatHand(hand []game.HandCard) string {
	parts := make([]string, len(hand))
	for i, h := range hand {
		if h.Played {
			parts[i] = "-"
		} else {
			parts[i] = h.Card.String()
		}
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func formatBoard(s game.Snapshot) string {
	tokens := make([]string, len(s.Cells))
	for i, c := range s.Cells {
		switch c.State {
		case game.CellBlocked:
			tokens[i] = "#"
		case game.CellOccupied:
			tokens[i] = c.Card.String() + ":" + c.Owner.String()
		default:
			tokens[i] = "."
		}
	}
	return "board " + strings.Join(tokens, " ")
}

func formatFlips(flips []game.FlipEvent) string {
	parts := make([]string, 0, len(flips))
	for _, f := range flips {
		if f.From == f.To {
			continue
		}
		parts = append(parts, fmt.Sprintf("%X:%s:%s", f.Cell, f.Cause, f.To))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func formatScore(s game.Snapshot) string {
	return fmt.Sprintf("score=%d-%d", s.Scores[core.P1], s.Scores[core.P2])
}

func formatOutcome(s game.Snapshot) string {
	if s.Draw {
		return "draw " + formatScore(s)
	}
	return "winner=" + s.Winner.String() + " " + formatScore(s)
}

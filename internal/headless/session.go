// Package headless drives a game over a line-based text protocol, one
// command per line. It is the machine-facing front end used by scripts,
// test drivers and the play command.
package headless

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetra/internal/core"
	"github.com/vovakirdan/tetra/internal/game"
	"github.com/vovakirdan/tetra/internal/registry"
)

// MatchResultSaver is an interface for saving finished matches.
// This allows the session to record results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) (string, error)
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	Seed    int64
	System  string
	Winner  string // "p1", "p2" or "draw"
	Score1  int
	Score2  int
	Moves   int
	Blocked []int
	Setup   string // "new" options that reproduce the setup
}

// Options configures a session.
type Options struct {
	// Pool is the card pool hands are dealt from.
	Pool []core.Card

	// Runtime selects the battle system and blocked-cell bound.
	Runtime core.RuntimeConfig

	// Logger receives session events. Nil discards them.
	Logger *log.Logger

	// Saver records finished matches. Optional.
	Saver MatchResultSaver

	// Seed supplies a seed when "new" has none. Defaults to the clock.
	Seed func() int64

	// Prompt is written before each command when non-empty.
	Prompt string
}

// Session holds at most one game at a time. It is not safe for concurrent use.
type Session struct {
	opts     Options
	logger   *log.Logger
	resolver registry.Resolver

	pregame   *game.PreGame
	game      *game.Game
	seed      int64
	setup     string
	blocked   []int
	logCursor int
}

// NewSession creates a session. The battle system is resolved once, up front.
func NewSession(opts Options) (*Session, error) {
	if len(opts.Pool) == 0 {
		return nil, errors.New("headless: empty card pool")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Seed == nil {
		opts.Seed = func() int64 { return time.Now().UnixNano() }
	}
	if opts.Runtime.BattleSystem == "" {
		opts.Runtime.BattleSystem = core.DefaultConfig().BattleSystem
	}

	resolver, err := registry.Create(opts.Runtime)
	if err != nil {
		return nil, fmt.Errorf("headless: %w", err)
	}

	return &Session{
		opts:     opts,
		logger:   opts.Logger,
		resolver: resolver,
	}, nil
}

// Game returns the current game, or nil before the first "new".
func (s *Session) Game() *game.Game {
	return s.game
}

// Handle executes one command line and returns the reply lines.
// quit is true when the line was "quit".
func (s *Session) Handle(line string) (reply []string, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}

	cmd, args := fields[0], fields[1:]
	var err error
	switch cmd {
	case "quit":
		return nil, true
	case "new":
		reply, err = s.cmdNew(args)
	case "pick":
		reply, err = s.cmdPick(args)
	case "place":
		reply, err = s.cmdPlace(args)
	case "board":
		reply, err = s.cmdBoard(args)
	case "hand":
		reply, err = s.cmdHand(args)
	case "status":
		reply, err = s.cmdStatus(args)
	case "log":
		reply, err = s.cmdLog(args)
	default:
		err = badCommand("unknown command %q", cmd)
	}

	if err != nil {
		var pe *ProtocolError
		if !errors.As(err, &pe) {
			pe = &ProtocolError{Code: CodeBadCommand, Msg: err.Error()}
		}
		s.logger.Debug("command rejected", "command", cmd, "code", pe.Code, "msg", pe.Msg)
		return []string{pe.Error()}, false
	}
	return reply, false
}

// Run reads commands from r and writes replies to w until "quit", end of
// input or ctx is cancelled.
func (s *Session) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for {
		if s.opts.Prompt != "" {
			fmt.Fprint(bw, s.opts.Prompt)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("headless: write: %w", err)
		}

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			select {
			case err := <-readErr:
				if err != nil {
					return fmt.Errorf("headless: read: %w", err)
				}
			default:
			}
			return nil
		}

		reply, quit := s.Handle(line)
		for _, l := range reply {
			fmt.Fprintln(bw, l)
		}
		if quit {
			return nil
		}
	}
}

func (s *Session) cmdNew(args []string) ([]string, error) {
	a, err := parseNewArgs(args)
	if err != nil {
		return nil, err
	}
	if !a.hasSeed {
		a.seed = s.opts.Seed()
	}

	switch {
	case s.pregame != nil:
		s.logger.Warn("abandoning hand selection", "seed", s.seed)
	case s.game != nil && !s.game.IsOver():
		s.logger.Warn("abandoning unfinished game", "seed", s.seed, "moves", s.game.MovesPlayed())
	}

	rng := core.NewSeededRNG(a.seed)
	cfg := game.Config{
		Pool:         s.opts.Pool,
		Hands:        a.hands,
		MaxBlocked:   s.opts.Runtime.MaxBlocked,
		BlockedCells: a.blocked,
		Resolver:     s.resolver,
		Logger:       s.logger,
	}

	if a.pick {
		pg, err := game.NewPreGame(rng, cfg, a.candidates)
		if err != nil {
			return nil, badCommand("%v", err)
		}
		s.pregame, s.game = pg, nil
		s.seed, s.setup = rng.Seed(), a.setup(rng.Seed())
		s.blocked = pg.BlockedCells()
		cands := pg.Candidates()
		s.logger.Info("hand selection started", "seed", s.seed, "system", s.resolver.ID(), "blocked", FormatCells(s.blocked))

		return []string{fmt.Sprintf("setup-ok seed=%d blocked=%s candidates=%s",
			s.seed,
			FormatCells(s.blocked),
			FormatHands(cands[:]),
		)}, nil
	}

	g, err := game.New(rng, cfg)
	if err != nil {
		return nil, badCommand("%v", err)
	}

	s.pregame = nil
	s.seed, s.setup = rng.Seed(), a.setup(rng.Seed())
	s.begin(g)

	return []string{fmt.Sprintf("setup-ok seed=%d blocked=%s p1=%s p2=%s",
		s.seed,
		FormatCells(s.blocked),
		formatHand(g.Hand(core.P1)),
		formatHand(g.Hand(core.P2)),
	)}, nil
}

// begin makes g the current game.
func (s *Session) begin(g *game.Game) {
	s.game = g
	s.blocked = blockedCells(g.Snapshot())
	s.logCursor = 0
	s.logger.Info("game started", "seed", s.seed, "system", g.Resolver().ID(), "blocked", FormatCells(s.blocked))
}

// requireGame rejects commands that need a running or finished game.
func (s *Session) requireGame() error {
	if s.pregame != nil {
		return &ProtocolError{Code: CodePicking, Msg: "hand selection in progress"}
	}
	if s.game == nil {
		return &ProtocolError{Code: CodeNoGame, Msg: "no game in progress"}
	}
	return nil
}

func (s *Session) cmdPick(args []string) ([]string, error) {
	if s.pregame == nil {
		return nil, badCommand("no hand selection in progress")
	}
	if len(args) != 2 {
		return nil, badCommand("usage: pick <p1|p2> <candidate>")
	}
	player, err := parsePlayer(args[0])
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, badCommand("candidate %q is not a number", args[1])
	}

	if err := s.pregame.Pick(player, n); err != nil {
		return nil, &ProtocolError{Code: pickErrorCode(err), Msg: err.Error()}
	}

	reply := []string{fmt.Sprintf("ok pick %s=%d", player, n)}
	if !s.pregame.Ready() {
		return append(reply, "pick="+s.pregame.Current().String()), nil
	}

	g, err := s.pregame.Start()
	if err != nil {
		return nil, badCommand("%v", err)
	}
	s.pregame = nil
	s.begin(g)

	return append(reply,
		fmt.Sprintf("ready p1=%s p2=%s", formatHand(g.Hand(core.P1)), formatHand(g.Hand(core.P2))),
		"turn="+g.Current().String(),
	), nil
}

func (s *Session) cmdPlace(args []string) ([]string, error) {
	if err := s.requireGame(); err != nil {
		return nil, err
	}
	if len(args) != 3 {
		return nil, badCommand("usage: place <p1|p2> <hand> <cell>")
	}
	player, err := parsePlayer(args[0])
	if err != nil {
		return nil, err
	}
	hand, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, badCommand("hand index %q is not a number", args[1])
	}
	cell, err := parseCell(args[2])
	if err != nil {
		return nil, badCommand("%v", err)
	}

	res, err := s.game.SubmitMove(player, hand, cell)
	if err != nil {
		return nil, &ProtocolError{Code: moveErrorCode(err), Msg: err.Error()}
	}

	snap := s.game.Snapshot()
	reply := []string{fmt.Sprintf("ok flips=%s", formatFlips(res.Flips))}
	if !res.Over {
		return append(reply, "turn="+res.Next.String()), nil
	}

	reply = append(reply, "game-over "+formatOutcome(snap))
	s.record(snap)
	return reply, nil
}

func (s *Session) cmdBoard(args []string) ([]string, error) {
	if err := s.requireGame(); err != nil {
		return nil, err
	}
	if len(args) != 0 {
		return nil, badCommand("usage: board")
	}
	return []string{formatBoard(s.game.Snapshot())}, nil
}

func (s *Session) cmdHand(args []string) ([]string, error) {
	if err := s.requireGame(); err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, badCommand("usage: hand <p1|p2>")
	}
	p, err := parsePlayer(args[0])
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("hand %s %s", p, formatHand(s.game.Hand(p)))}, nil
}

func (s *Session) cmdStatus(args []string) ([]string, error) {
	if len(args) != 0 {
		return nil, badCommand("usage: status")
	}
	if s.pregame != nil {
		return []string{"status picking pick=" + s.pregame.Current().String()}, nil
	}
	if s.game == nil {
		return nil, &ProtocolError{Code: CodeNoGame, Msg: "no game in progress"}
	}
	snap := s.game.Snapshot()
	if snap.Over {
		return []string{"status over " + formatOutcome(snap)}, nil
	}
	return []string{fmt.Sprintf("status turn=%s moves=%d %s", snap.Current, snap.Moves, formatScore(snap))}, nil
}

func (s *Session) cmdLog(args []string) ([]string, error) {
	if err := s.requireGame(); err != nil {
		return nil, err
	}
	if len(args) != 0 {
		return nil, badCommand("usage: log")
	}
	entries := s.game.Log().Since(s.logCursor)
	s.logCursor += len(entries)

	reply := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		reply = append(reply, "log "+e.String())
	}
	return append(reply, fmt.Sprintf("log-end n=%d", len(entries))), nil
}

// record hands a finished match to the saver, if any.
func (s *Session) record(snap game.Snapshot) {
	winner := "draw"
	if !snap.Draw {
		winner = snap.Winner.String()
	}
	s.logger.Info("game over", "seed", s.seed, "winner", winner, "p1", snap.Scores[core.P1], "p2", snap.Scores[core.P2])

	if s.opts.Saver == nil {
		return
	}
	id, err := s.opts.Saver.SaveMatchResult(MatchResultData{
		Seed:    s.seed,
		System:  s.game.Resolver().ID(),
		Winner:  winner,
		Score1:  snap.Scores[core.P1],
		Score2:  snap.Scores[core.P2],
		Moves:   snap.Moves,
		Blocked: s.blocked,
		Setup:   s.setup,
	})
	if err != nil {
		s.logger.Warn("could not record match", "error", err)
		return
	}
	s.logger.Debug("match recorded", "id", id)
}

func blockedCells(snap game.Snapshot) []int {
	cells := []int{}
	for i, c := range snap.Cells {
		if c.State == game.CellBlocked {
			cells = append(cells, i)
		}
	}
	return cells
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tetra/internal/headless"
	"github.com/vovakirdan/tetra/internal/storage"
)

var (
	flagSeed       int64
	flagBlocked    string
	flagHands      string
	flagCandidates string
	flagSystem     string
	flagNoSave     bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game over stdin/stdout",
	Long: `Start a session that reads one command per line from stdin.

Commands:
  new [seed=N] [blocked=c,c,..]   - Start a game (cells are hex 0-F)
      [hands=<5 cards>;<5 cards>] - Fix both hands instead of dealing them
      [candidates=deal|<3 hands>] - Offer three hands to pick from first
  pick <p1|p2> <candidate>        - Pick candidate hand 0-2, p1 first
  place <p1|p2> <hand> <cell>     - Play hand slot 0-4 onto a cell
  board                           - Show the board
  hand <p1|p2>                    - Show a hand, played slots as -
  status                          - Show turn, moves and score
  log                             - Show events since the last log
  quit                            - Leave

Finished games are recorded in the match database.

Examples:
  tetra play
  tetra play --seed 42
  tetra play --seed 7 --blocked 0,5,A
  tetra play --seed 7 --candidates deal
  tetra play --system dice`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Start a game right away with this seed")
	playCmd.Flags().StringVar(&flagBlocked, "blocked", "", "Start a game right away with these blocked cells")
	playCmd.Flags().StringVar(&flagHands, "hands", "", "Start a game right away with these two hands")
	playCmd.Flags().StringVar(&flagCandidates, "candidates", "", "Start with hand selection: 'deal' or three hands")
	playCmd.Flags().StringVar(&flagSystem, "system", "", "Battle system override (see 'tetra systems')")
	playCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record finished games")
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagSystem != "" {
		cfg.Rules.BattleSystem = flagSystem
	}

	pool, err := cfg.Pool()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := headless.Options{
		Pool:    pool,
		Runtime: cfg.Runtime(flagSeed),
		Logger:  logger,
	}

	// Open match storage
	var store *storage.Store
	if !flagNoSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open match database", "error", err)
			// Continue without storage - game still works
			store = nil
		} else {
			opts.Saver = store
			defer store.Close()
		}
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		opts.Prompt = "tetra> "
	}

	session, err := headless.NewSession(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if interactive {
		fmt.Fprintln(os.Stderr, "Type 'new' to start a game, 'quit' to leave.")
	}

	if line := startCommand(cmd); line != "" {
		reply, _ := session.Handle(line)
		for _, l := range reply {
			fmt.Println(l)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running session: %v\n", err)
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}
}

// startCommand builds the "new" line implied by the setup flags.
func startCommand(cmd *cobra.Command) string {
	flags := cmd.Flags()
	line := "new"
	if flags.Changed("seed") {
		line += " seed=" + strconv.FormatInt(flagSeed, 10)
	}
	for _, opt := range []struct {
		name  string
		value string
	}{
		{"blocked", flagBlocked},
		{"hands", flagHands},
		{"candidates", flagCandidates},
	} {
		if flags.Changed(opt.name) {
			line += " " + opt.name + "=" + opt.value
		}
	}
	if line == "new" {
		return ""
	}
	return line
}

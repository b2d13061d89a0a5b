package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetra/internal/storage"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history [match-id]",
	Short: "Show recorded matches",
	Long: `Display the most recent finished matches with win tallies, or the
details of a single match when a match id is given.

Examples:
  tetra history
  tetra history --limit 5
  tetra history 3f0c2f3e-8d7a-4c55-9b0e-2b1f6f3f6a10`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of matches to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 1 {
		if err := showMatch(cmd, store, args[0]); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	matches, err := store.RecentMatches(flagLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		os.Exit(1)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Recent matches")
	fmt.Fprintln(out)

	if len(matches) == 0 {
		fmt.Fprintln(out, "No matches recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'tetra play' to record the first one!")
		return
	}

	fmt.Fprintf(out, "  %-16s  %-8s  %-6s  %-5s  %-20s  %s\n", "Date", "System", "Winner", "Score", "Seed", "Match")
	fmt.Fprintf(out, "  %-16s  %-8s  %-6s  %-5s  %-20s  %s\n", "----", "------", "------", "-----", "----", "-----")

	for _, m := range matches {
		fmt.Fprintf(out, "  %-16s  %-8s  %-6s  %-5s  %-20d  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"),
			m.System,
			m.Winner,
			fmt.Sprintf("%d-%d", m.Score1, m.Score2),
			m.Seed,
			m.MatchID,
		)
	}

	total, err := store.PlayerTallies("")
	if err != nil {
		logger.Warn("could not compute tallies", "error", err)
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "All systems: %d matches, p1 %d, p2 %d, draws %d\n",
		total.Matches, total.P1Wins, total.P2Wins, total.Draws)

	bySystem, err := store.SystemTallies()
	if err != nil {
		logger.Warn("could not compute system tallies", "error", err)
		return
	}
	ids := make([]string, 0, len(bySystem))
	for id := range bySystem {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		t := bySystem[id]
		fmt.Fprintf(out, "  %-8s  %d matches, p1 %d, p2 %d, draws %d\n", id, t.Matches, t.P1Wins, t.P2Wins, t.Draws)
	}
}

func showMatch(cmd *cobra.Command, store *storage.Store, matchID string) error {
	m, err := store.MatchByID(matchID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("no match with id %q", matchID)
	}

	blocked := "-"
	if m.Blocked != "" {
		blocked = m.Blocked
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Match   %s\n", m.MatchID)
	fmt.Fprintf(out, "Played  %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "System  %s\n", m.System)
	fmt.Fprintf(out, "Seed    %d\n", m.Seed)
	fmt.Fprintf(out, "Blocked %s\n", blocked)
	fmt.Fprintf(out, "Moves   %d\n", m.Moves)
	fmt.Fprintf(out, "Score   %d-%d\n", m.Score1, m.Score2)
	fmt.Fprintf(out, "Winner  %s\n", m.Winner)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Replay with: %s\n", replayCommand(m))
	return nil
}

// replayCommand builds the play invocation that sets the match up again.
// Only options fixed at setup are passed; randomly drawn cells and hands
// come back from the seed.
func replayCommand(m *storage.MatchResult) string {
	args := []string{"tetra play", "--system " + m.System}
	if m.Setup == "" {
		return strings.Join(append(args, "--seed "+strconv.FormatInt(m.Seed, 10)), " ")
	}
	for _, opt := range strings.Fields(m.Setup) {
		k, v, ok := strings.Cut(opt, "=")
		if !ok {
			continue
		}
		switch k {
		case "seed":
			args = append(args, "--seed "+v)
		case "blocked":
			cells := strings.Trim(v, "[]")
			if cells == "" {
				cells = "''"
			}
			args = append(args, "--blocked "+cells)
		case "hands", "candidates":
			args = append(args, "--"+k+" '"+v+"'")
		}
	}
	return strings.Join(args, " ")
}

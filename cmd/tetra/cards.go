package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetra/internal/core"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List the configured card pool",
	Long: `Shows every card hands are dealt from, with its stats and arrows.

Card notation is <attack><type><physical><magical>@<arrows>, where stats
are hex digits, the type is P, M, X or A, and arrows is a hex bitmask.`,
	Args: cobra.NoArgs,
	Run:  runCards,
}

func runCards(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Card pool (%d cards, battle system %q):\n", len(cfg.Cards), cfg.Rules.BattleSystem)
	fmt.Fprintln(out)

	maxNameLen := 4 // "Name" header
	for _, e := range cfg.Cards {
		if len(e.Name) > maxNameLen {
			maxNameLen = len(e.Name)
		}
	}

	fmt.Fprintf(out, "  %-*s  %-8s  %-8s  %s\n", maxNameLen, "Name", "Card", "Type", "Arrows")
	fmt.Fprintf(out, "  %-*s  %-8s  %-8s  %s\n", maxNameLen, "----", "----", "----", "------")

	for _, e := range cfg.Cards {
		card, err := core.ParseCard(e.Card)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "  %-*s  %-8s  %-8s  %s\n", maxNameLen, e.Name, card, typeName(card.Type), arrowList(card.Arrows))
	}
}

func typeName(t core.CardType) string {
	switch t {
	case core.Physical:
		return "physical"
	case core.Magical:
		return "magical"
	case core.Exploit:
		return "exploit"
	case core.Assault:
		return "assault"
	default:
		return "?"
	}
}

func arrowList(a core.Arrows) string {
	dirs := a.Directions()
	if len(dirs) == 0 {
		return "-"
	}
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return strings.Join(names, ",")
}

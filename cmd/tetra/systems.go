package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetra/internal/core"
	"github.com/vovakirdan/tetra/internal/registry"
)

var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "List available battle systems",
	Long:  `Shows every battle system registered in the game. The configured one is marked with *.`,
	Args:  cobra.NoArgs,
	Run:   runSystems,
}

func runSystems(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	systems := registry.List()

	if len(systems) == 0 {
		fmt.Fprintln(out, "No battle systems available.")
		return
	}

	// Titles come from the configured rules, e.g. the dice size.
	rc := core.DefaultConfig()
	current := ""
	if cfg, err := loadConfig(); err == nil {
		current = cfg.Rules.BattleSystem
		rc = cfg.Runtime(0)
	} else {
		logger.Warn("could not load config", "error", err)
	}

	fmt.Fprintln(out, "Battle systems:")
	fmt.Fprintln(out)

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range systems {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	fmt.Fprintf(out, "    %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Fprintf(out, "    %-*s  %s\n", maxIDLen, "--", "-----")

	for _, s := range systems {
		mark := " "
		if s.ID == current {
			mark = "*"
		}
		title := s.Title
		rc.BattleSystem = s.ID
		if r, err := registry.Create(rc); err == nil {
			title = r.Title()
		}
		fmt.Fprintf(out, "  %s %-*s  %s\n", mark, maxIDLen, s.ID, title)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Set rules.battle_system in the config or use 'tetra play --system <id>'.")
}

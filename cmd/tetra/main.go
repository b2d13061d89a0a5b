// tetra is a two-player card placement game played on a 4x4 board.
//
// Usage:
//
//	tetra play               - Play over stdin/stdout using the line protocol
//	tetra cards              - List the configured card pool
//	tetra systems            - List available battle systems
//	tetra history [match-id] - Show recorded matches and tallies
//
// Global flags:
//
//	--config <path>     - Rules and card pool YAML (env TETRA_CONFIG)
//	--db <path>         - Match database path (env TETRA_DB, default: ~/.tetra/matches.db)
//	--log-level <level> - debug, info, warn or error (env TETRA_LOG_LEVEL)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import battle systems to register them
	_ "github.com/vovakirdan/tetra/internal/battle"
	"github.com/vovakirdan/tetra/internal/config"
)

const defaultDBPath = "~/.tetra/matches.db"

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
	flagLogLevel   string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetra",
	Short: "Tetra - a 4x4 arrow card battle game",
	Long: `Tetra is a two-player card game. Players take turns placing cards on a
4x4 board; arrows on a card capture neighbors directly or through battles
and combos. The player owning more cards when the game ends wins.

Available commands:
  play     - Play a game over the text protocol
  cards    - Show the configured card pool
  systems  - Show the available battle systems
  history  - Show recorded matches

Examples:
  tetra play
  tetra play --seed 42
  tetra cards --config ./my-cards.yaml
  tetra history --limit 5`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to rules and card pool YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to match database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(systemsCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup applies .env defaults to flags the user did not set and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("config") {
		flagConfigPath = config.EnvOr(config.EnvConfig, flagConfigPath)
	}
	if !flags.Changed("db") {
		flagDBPath = config.EnvOr(config.EnvDB, flagDBPath)
	}
	if !flags.Changed("log-level") {
		flagLogLevel = config.EnvOr(config.EnvLogLevel, flagLogLevel)
	}

	l, err := newLogger(flagLogLevel)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetra",
	})
	l.SetLevel(lvl)
	return l, nil
}

// loadConfig loads the rules and card pool named by --config.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return cfg, err
	}
	logger.Debug("config loaded", "path", flagConfigPath, "cards", len(cfg.Cards), "system", cfg.Rules.BattleSystem)
	return cfg, nil
}

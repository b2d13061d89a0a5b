package core

// MaxBlockedCells is the most cells that may be blocked while still leaving
// room for both hands.
const MaxBlockedCells = 6

// RuntimeConfig contains the options a caller passes when starting a game.
type RuntimeConfig struct {
	Seed         int64  // RNG seed; 0 means the platform picks one from the clock
	BattleSystem string // registry id of the battle system
	DiceSides    int    // faces per die for the "dice" system
	MaxBlocked   int    // upper bound of the random blocked-cell count
}

// DefaultConfig returns a RuntimeConfig with the standard rules.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Seed:         0,
		BattleSystem: "original",
		DiceSides:    6,
		MaxBlocked:   MaxBlockedCells,
	}
}

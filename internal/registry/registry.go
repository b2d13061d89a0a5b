// Package registry provides a global registry for battle-system factories.
// Battle systems register themselves in init() functions, allowing the
// engine and the CLI to pick one by id without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tetra/internal/core"
)

// Resolver is the interface every battle system implements.
// Resolvers are pure functions of the two cards and the RNG stream.
type Resolver interface {
	// ID returns a unique identifier for this system (e.g., "original", "dice").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Resolve fights attacker against defender, drawing all randomness from rng.
	Resolve(attacker, defender core.Card, rng core.RNG) core.Outcome
}

// SystemInfo contains metadata about a registered battle system.
type SystemInfo struct {
	ID    string
	Title string
}

// Factory creates a resolver configured by cfg.
type Factory func(cfg core.RuntimeConfig) Resolver

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a battle-system factory to the registry.
// Typically called from a package's init() function.
// Panics if a system with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: battle system %q already registered", id))
	}

	factories[id] = f
	titles[id] = f(core.DefaultConfig()).Title()
}

// List returns information about all registered systems, sorted by ID.
func List() []SystemInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SystemInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SystemInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates the battle system named by cfg.BattleSystem.
// Returns an error if the ID is not registered.
func Create(cfg core.RuntimeConfig) (Resolver, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[cfg.BattleSystem]
	if !ok {
		return nil, fmt.Errorf("registry: unknown battle system %q", cfg.BattleSystem)
	}

	return f(cfg), nil
}

// Exists checks if a battle system with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetra/internal/headless"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")
	assert.NoError(t, store.Close())
}

func TestStoreReopenKeepsMatches(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	id, err := store.SaveMatch(MatchResult{Seed: 1, System: "original", Winner: WinnerP1, Score1: 6, Score2: 4, Moves: 10})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	m, err := store.MatchByID(id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 6, m.Score1)
}

func TestSaveMatchAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveMatch(MatchResult{
		Seed:    42,
		System:  "original",
		Winner:  WinnerP2,
		Score1:  2,
		Score2:  8,
		Moves:   10,
		Blocked: "035ACF",
	})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "generated match id should be a uuid")

	m, err := store.MatchByID(id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, id, m.MatchID)
	assert.Equal(t, int64(42), m.Seed)
	assert.Equal(t, "original", m.System)
	assert.Equal(t, WinnerP2, m.Winner)
	assert.Equal(t, 2, m.Score1)
	assert.Equal(t, 8, m.Score2)
	assert.Equal(t, 10, m.Moves)
	assert.Equal(t, "035ACF", m.Blocked)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestOpenAddsSetupColumn(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL UNIQUE,
		seed INTEGER NOT NULL,
		system TEXT NOT NULL,
		winner TEXT NOT NULL,
		score1 INTEGER NOT NULL DEFAULT 0,
		score2 INTEGER NOT NULL DEFAULT 0,
		moves INTEGER NOT NULL DEFAULT 0,
		blocked TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO matches (match_id, seed, system, winner) VALUES ('old', 5, 'original', 'p2')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	m, err := store.MatchByID("old")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "", m.Setup)

	id, err := store.SaveMatch(MatchResult{Seed: 6, System: "dice", Winner: WinnerP1, Setup: "seed=6"})
	require.NoError(t, err)
	m, err = store.MatchByID(id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "seed=6", m.Setup)
}

func TestSaveMatchKeepsGivenID(t *testing.T) {
	store := openTestStore(t)
	given := uuid.NewString()

	id, err := store.SaveMatch(MatchResult{MatchID: given, System: "dice", Winner: WinnerDraw, Score1: 5, Score2: 5})
	require.NoError(t, err)
	assert.Equal(t, given, id)

	_, err = store.SaveMatch(MatchResult{MatchID: given, System: "dice", Winner: WinnerDraw})
	assert.Error(t, err, "match ids are unique")
}

func TestSaveMatchRejectsBadWinner(t *testing.T) {
	store := openTestStore(t)
	_, err := store.SaveMatch(MatchResult{System: "original", Winner: "p3"})
	assert.Error(t, err)
}

func TestMatchByIDNotFound(t *testing.T) {
	store := openTestStore(t)
	m, err := store.MatchByID("no-such-match")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRecentMatches(t *testing.T) {
	store := openTestStore(t)

	var ids []string
	for i := range 5 {
		id, err := store.SaveMatch(MatchResult{Seed: int64(i), System: "original", Winner: WinnerP1})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	recent, err := store.RecentMatches(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	// Newest first.
	assert.Equal(t, ids[4], recent[0].MatchID)
	assert.Equal(t, ids[3], recent[1].MatchID)
	assert.Equal(t, ids[2], recent[2].MatchID)

	all, err := store.RecentMatches(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestTallies(t *testing.T) {
	store := openTestStore(t)

	results := []MatchResult{
		{System: "original", Winner: WinnerP1},
		{System: "original", Winner: WinnerP1},
		{System: "original", Winner: WinnerP2},
		{System: "dice", Winner: WinnerDraw},
		{System: "dice", Winner: WinnerP2},
	}
	for _, r := range results {
		_, err := store.SaveMatch(r)
		require.NoError(t, err)
	}

	all, err := store.PlayerTallies("")
	require.NoError(t, err)
	assert.Equal(t, 5, all.Matches)
	assert.Equal(t, 2, all.P1Wins)
	assert.Equal(t, 2, all.P2Wins)
	assert.Equal(t, 1, all.Draws)
	assert.False(t, all.Last.IsZero())

	orig, err := store.PlayerTallies("original")
	require.NoError(t, err)
	assert.Equal(t, 3, orig.Matches)
	assert.Equal(t, 2, orig.P1Wins)

	bySystem, err := store.SystemTallies()
	require.NoError(t, err)
	require.Len(t, bySystem, 2)
	assert.Equal(t, 1, bySystem["dice"].Draws)
	assert.Equal(t, 1, bySystem["dice"].P2Wins)
	assert.Equal(t, 3, bySystem["original"].Matches)
}

func TestTalliesEmpty(t *testing.T) {
	store := openTestStore(t)

	tallies, err := store.PlayerTallies("")
	require.NoError(t, err)
	assert.Equal(t, 0, tallies.Matches)
	assert.True(t, tallies.Last.IsZero())

	bySystem, err := store.SystemTallies()
	require.NoError(t, err)
	assert.Empty(t, bySystem)
}

func TestSaveMatchResultAdapter(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveMatchResult(headless.MatchResultData{
		Seed:    7,
		System:  "dice",
		Winner:  "p1",
		Score1:  6,
		Score2:  4,
		Moves:   10,
		Blocked: []int{0x0, 0x3, 0xF},
		Setup:   "seed=7 blocked=[0,3,F]",
	})
	require.NoError(t, err)

	m, err := store.MatchByID(id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "03F", m.Blocked)
	assert.Equal(t, "seed=7 blocked=[0,3,F]", m.Setup)
	assert.Equal(t, WinnerP1, m.Winner)
	assert.Equal(t, int64(7), m.Seed)
}

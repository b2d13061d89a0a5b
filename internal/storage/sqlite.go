// Package storage provides SQLite-based persistence for finished match results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tetra/internal/headless"
)

// Winner values stored in the ledger.
const (
	WinnerP1   = "p1"
	WinnerP2   = "p2"
	WinnerDraw = "draw"
)

// Store manages the SQLite database connection for the match ledger.
type Store struct {
	db *sql.DB
}

// MatchResult is one finished match.
type MatchResult struct {
	ID        int64
	MatchID   string // uuid, assigned by SaveMatch when empty
	Seed      int64
	System    string // battle system id
	Winner    string // WinnerP1, WinnerP2 or WinnerDraw
	Score1    int
	Score2    int
	Moves     int
	Blocked   string // blocked cells as hex digits, e.g. "03AF"
	Setup     string // "new" options that reproduce the setup, e.g. "seed=7 blocked=[0,F]"
	CreatedAt time.Time
}

// Tallies aggregates results, optionally for one battle system.
type Tallies struct {
	System  string // empty for all systems
	Matches int
	P1Wins  int
	P2Wins  int
	Draws   int
	Last    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			seed INTEGER NOT NULL,
			system TEXT NOT NULL,
			winner TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			blocked TEXT NOT NULL DEFAULT '',
			setup TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_system ON matches(system);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.ensureColumn("setup", `ALTER TABLE matches ADD COLUMN setup TEXT NOT NULL DEFAULT ''`)
}

// ensureColumn runs ddl when the matches table has no column called name.
func (s *Store) ensureColumn(name, ddl string) error {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('matches') WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.db.Exec(ddl)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished match and returns its match id.
func (s *Store) SaveMatch(m MatchResult) (string, error) {
	switch m.Winner {
	case WinnerP1, WinnerP2, WinnerDraw:
	default:
		return "", fmt.Errorf("storage: invalid winner %q", m.Winner)
	}
	if m.MatchID == "" {
		m.MatchID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO matches
		 (match_id, seed, system, winner, score1, score2, moves, blocked, setup)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MatchID, m.Seed, m.System, m.Winner, m.Score1, m.Score2, m.Moves, m.Blocked, m.Setup,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save match: %w", err)
	}

	return m.MatchID, nil
}

// SaveMatchResult implements headless.MatchResultSaver.
// This adapter allows a session to record results without direct storage dependency.
func (s *Store) SaveMatchResult(data headless.MatchResultData) (string, error) {
	var blocked strings.Builder
	for _, c := range data.Blocked {
		fmt.Fprintf(&blocked, "%X", c)
	}
	return s.SaveMatch(MatchResult{
		Seed:    data.Seed,
		System:  data.System,
		Winner:  data.Winner,
		Score1:  data.Score1,
		Score2:  data.Score2,
		Moves:   data.Moves,
		Blocked: blocked.String(),
		Setup:   data.Setup,
	})
}

// Ensure Store implements MatchResultSaver
var _ headless.MatchResultSaver = (*Store)(nil)

const matchColumns = `id, match_id, seed, system, winner, score1, score2, moves, blocked, setup, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchResult, error) {
	var m MatchResult
	var createdAt any
	err := row.Scan(
		&m.ID,
		&m.MatchID,
		&m.Seed,
		&m.System,
		&m.Winner,
		&m.Score1,
		&m.Score2,
		&m.Moves,
		&m.Blocked,
		&m.Setup,
		&createdAt,
	)
	m.CreatedAt = parseTime(createdAt)
	return m, err
}

// MatchByID retrieves a match by its match id. Returns nil if not found.
func (s *Store) MatchByID(matchID string) (*MatchResult, error) {
	m, err := scanMatch(s.db.QueryRow(
		`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`,
		matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// PlayerTallies counts wins and draws for system, or for every system when
// system is empty.
func (s *Store) PlayerTallies(system string) (*Tallies, error) {
	t := &Tallies{System: system}
	var last any

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(winner = 'p1'), 0),
		        COALESCE(SUM(winner = 'p2'), 0),
		        COALESCE(SUM(winner = 'draw'), 0),
		        MAX(created_at)
		 FROM matches
		 WHERE ? = '' OR system = ?`,
		system, system,
	).Scan(&t.Matches, &t.P1Wins, &t.P2Wins, &t.Draws, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get tallies: %w", err)
	}
	t.Last = parseTime(last)

	return t, nil
}

// SystemTallies returns tallies for every battle system that has been played.
func (s *Store) SystemTallies() (map[string]*Tallies, error) {
	rows, err := s.db.Query(
		`SELECT system, COUNT(*), SUM(winner = 'p1'), SUM(winner = 'p2'), SUM(winner = 'draw'), MAX(created_at)
		 FROM matches
		 GROUP BY system`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get system tallies: %w", err)
	}
	defer rows.Close()

	tallies := make(map[string]*Tallies)
	for rows.Next() {
		var t Tallies
		var last any
		if err := rows.Scan(&t.System, &t.Matches, &t.P1Wins, &t.P2Wins, &t.Draws, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan tallies row: %w", err)
		}
		t.Last = parseTime(last)
		tallies[t.System] = &t
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return tallies, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

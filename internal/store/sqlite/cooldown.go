// Package sqlite implements the cooldown store on an embedded SQLite
// database. Useful when the service shares a state volume with other tools
// that already speak SQL; the file backend is the default.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cooldown (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	last_action_at TEXT NOT NULL
);`

// CooldownStore persists the last-action timestamp in a one-row table.
type CooldownStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*CooldownStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite state: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite state: %w", err)
	}
	return &CooldownStore{db: db}, nil
}

// Close releases the database handle.
func (s *CooldownStore) Close() error { return s.db.Close() }

// Load reads the persisted timestamp. An empty table is "no prior action";
// an unparseable row degrades the same way.
func (s *CooldownStore) Load() (time.Time, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT last_action_at FROM cooldown WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read cooldown state: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, nil
	}
	return ts, true, nil
}

// Save upserts the single cooldown row.
func (s *CooldownStore) Save(last time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO cooldown (id, last_action_at) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET last_action_at = excluded.last_action_at`,
		last.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write cooldown state: %w", err)
	}
	return nil
}

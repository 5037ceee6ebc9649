// Package store persists the dashboard selection slot in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/pracviz/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// DefaultSlot names the slot used when no data-source key is supplied.
const DefaultSlot = "default"

// Store wraps SQLite access for saved view state.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS selection_slots (
			name TEXT PRIMARY KEY,
			instruments TEXT NOT NULL,
			selection_set INTEGER NOT NULL,
			threshold INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SlotName derives a slot key from the data sources so that different
// datasets keep separate selections.
func SlotName(tabularPath, structuredPath string) string {
	if tabularPath == "" && structuredPath == "" {
		return DefaultSlot
	}
	return absPath(tabularPath) + "|" + absPath(structuredPath)
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// LoadState returns the saved state for the slot. The boolean is false when
// nothing has been saved yet.
func (s *Store) LoadState(ctx context.Context, name string) (model.State, bool, error) {
	var (
		instruments string
		set         bool
		threshold   int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT instruments, selection_set, threshold FROM selection_slots WHERE name = ?`,
		name,
	).Scan(&instruments, &set, &threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return model.State{}, false, nil
	}
	if err != nil {
		return model.State{}, false, err
	}
	var names []string
	if err := json.Unmarshal([]byte(instruments), &names); err != nil {
		return model.State{}, false, fmt.Errorf("failed to decode slot %q: %w", name, err)
	}
	return model.State{
		Selection: model.Selection{Instruments: names, Set: set},
		Threshold: threshold,
	}, true, nil
}

// SaveState upserts the state for the slot.
func (s *Store) SaveState(ctx context.Context, name string, state model.State) error {
	names := state.Selection.Instruments
	if names == nil {
		names = []string{}
	}
	encoded, err := json.Marshal(names)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO selection_slots (name, instruments, selection_set, threshold, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			instruments = excluded.instruments,
			selection_set = excluded.selection_set,
			threshold = excluded.threshold,
			updated_at = excluded.updated_at`,
		name,
		string(encoded),
		state.Selection.Set,
		state.Threshold,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// DeleteState removes a saved slot.
func (s *Store) DeleteState(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM selection_slots WHERE name = ?`, name)
	return err
}

// Package history persists the command history in a SQLite database at
// <config dir>/history.db. Only the most recent MaxEntries commands are kept.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"promptshell/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout is fixed-width so lexicographic order on the stored string
// matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// MaxEntries caps the persisted history.
const MaxEntries = 100

// Entry is one translated-and-executed command.
type Entry struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	NaturalLanguage string    `json:"natural_language"`
	ShellCommand    string    `json:"shell_command"`
	ExitCode        int       `json:"exit_code"`
}

// Store wraps the SQLite history database.
type Store struct {
	db *sql.DB
}

// Open ensures the parent directory exists, opens the database, and applies
// the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records an entry and prunes the table to MaxEntries.
func (s *Store) Append(ctx context.Context, naturalLanguage, command string, exitCode int) (Entry, error) {
	e := Entry{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		NaturalLanguage: naturalLanguage,
		ShellCommand:    command,
		ExitCode:        exitCode,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, created_at, natural_language, shell_command, exit_code)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.Format(timeLayout), e.NaturalLanguage, e.ShellCommand, e.ExitCode)
	if err != nil {
		return Entry{}, fmt.Errorf("insert history entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM history WHERE id NOT IN (
		   SELECT id FROM history ORDER BY created_at DESC LIMIT ?)`,
		MaxEntries)
	if err != nil {
		return Entry{}, fmt.Errorf("prune history: %w", err)
	}

	logging.History("recorded %q (exit=%d)", command, exitCode)
	return e, nil
}

// Merge inserts an entry keeping its original ID and timestamp, skipping it
// when the ID is already present. It reports whether the entry was inserted.
// Cloud pulls use this so repeated syncs stay idempotent.
func (s *Store) Merge(ctx context.Context, e Entry) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO history (id, created_at, natural_language, shell_command, exit_code)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.UTC().Format(timeLayout), e.NaturalLanguage, e.ShellCommand, e.ExitCode)
	if err != nil {
		return false, fmt.Errorf("merge history entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM history WHERE id NOT IN (
		   SELECT id FROM history ORDER BY created_at DESC LIMIT ?)`,
		MaxEntries)
	if err != nil {
		return false, fmt.Errorf("prune history: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("merge history entry: %w", err)
	}
	return inserted > 0, nil
}

// LastN returns the n most recent entries, oldest first. n <= 0 returns
// everything.
func (s *Store) LastN(ctx context.Context, n int) ([]Entry, error) {
	limit := MaxEntries
	if n > 0 {
		limit = n
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, natural_language, shell_command, exit_code
		 FROM history ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &created, &e.NaturalLanguage, &e.ShellCommand, &e.ExitCode); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse history timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to oldest-first for prompt context.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	logging.History("cleared")
	return nil
}

// Count returns the number of persisted entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

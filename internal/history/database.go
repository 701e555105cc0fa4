// Package history keeps an optional sqlite record of finished downloads.
package history

import (
	"database/sql"
	"fmt"

	"mediagrab/internal/utils/logging"

	// Package sqlite3 provides interface to SQLite3 databases.
	_ "github.com/mattn/go-sqlite3"
)

const (
	dbDriver = "sqlite3"
)

// Store wraps the history database.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (s *Store, err error) {
	s = new(Store)
	s.DB, err = sql.Open(dbDriver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database at path %q: %w", path, err)
	}

	// Parallel workers record concurrently
	if _, err := s.DB.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		s.DB.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Allow SQLite to wait for locks (in milliseconds)
	if _, err := s.DB.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		s.DB.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}

	if err := s.initTables(); err != nil {
		s.DB.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// initTables initializes the SQL tables.
func (s *Store) initTables() (err error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("transaction rollback failed after original error %v: %v", err, rbErr)
			}
		}
	}()

	if err = initDownloadsTable(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// initDownloadsTable initializes downloads table
func initDownloadsTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS downloads (
        id INTEGER PRIMARY KEY,
        url TEXT NOT NULL,
        title TEXT NOT NULL,
        label TEXT,
        file_path TEXT NOT NULL,
        file_size INTEGER,
        completed_at TIMESTAMP NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_downloads_completed ON downloads(completed_at);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create downloads table: %w", err)
	}
	return nil
}

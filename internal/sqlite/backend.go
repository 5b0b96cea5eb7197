// Package sqlite implements the SQLite storage engine for the hbnb object
// store. Records are kept in a single table holding the same JSON record
// dictionary the JSONL engine writes, so both engines round-trip identically.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// FileName is the database file inside the data directory.
const FileName = "hbnb.db"

// Engine stores records in a SQLite database.
type Engine struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open creates dataDir if needed, opens the database and ensures the schema.
func Open(dataDir string, logger *slog.Logger) (*Engine, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	path := filepath.Join(dataDir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(createObjects); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Engine{db: db, path: path, logger: logger}, nil
}

// Path returns the database file location.
func (e *Engine) Path() string {
	return e.path
}

// Load returns every record ordered by position. Rows whose data cannot be
// decoded, or whose key does not match the decoded record, are skipped.
func (e *Engine) Load() ([]*types.Record, error) {
	rows, err := e.db.Query(selectObjects)
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()

	var records []*types.Record
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scanning object: %w", err)
		}
		r, err := types.UnmarshalRecord([]byte(data))
		if err != nil {
			e.logger.Warn("skipping record", "file", e.path, "key", key, "error", err)
			continue
		}
		if r.Key() != key {
			e.logger.Warn("skipping record", "file", e.path, "key", key, "error", "key does not match record")
			continue
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating objects: %w", err)
	}
	return records, nil
}

// Persist replaces the table content with records in one transaction.
func (e *Engine) Persist(records []*types.Record) error {
	tx, err := e.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning persist transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteObjects); err != nil {
		return fmt.Errorf("clearing objects: %w", err)
	}

	stmt, err := tx.Prepare(insertObject)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		data, err := types.MarshalRecord(r)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(r.Key(), i, r.Class, string(data)); err != nil {
			return fmt.Errorf("inserting %s: %w", r.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing persist transaction: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}

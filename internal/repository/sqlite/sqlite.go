// Package sqlite keeps raw content records in an embedded SQLite database.
//
// The store backs the "sqlite" content source: fixtures are seeded into it
// with `portfolio seed`, and content.StoreFetcher serves them through the
// same Fetcher interface the Contentful client implements. Use it for offline
// development or as a local mirror of a space.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so the binary still
// builds without CGo.
//
// The pattern with database/sql is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql at init time.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements repository.EntryRepository.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/portfolio.db"   → file-based database (persistent)
//   - ":memory:"            → in-memory database (tests; lost on close)
//
// sql.Open does not connect; Ping forces a connection so a bad path or
// permissions problem fails here instead of on the first query.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" gets its own empty database, so the pool
	// must never open a second one.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers (HTTP requests) proceed while `seed` is writing.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Wait for a competing writer instead of failing with SQLITE_BUSY.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Callers defer it right after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate runs all database migrations.
//
// CREATE TABLE IF NOT EXISTS is idempotent, so migrate runs on every start.
// Later schema changes go through addColumnIfNotExists.
func (db *DB) migrate() error {
	// entries holds raw content records as the content source returns them.
	// A record is identified by (kind, id): an Entry and an Asset may share an id.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id           TEXT NOT NULL,
			kind         TEXT NOT NULL,
			content_type TEXT NOT NULL DEFAULT '',
			payload      TEXT NOT NULL,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (kind, id)
		);
		CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating entries table: %w", err)
	}

	// content_type was added after the first schema shipped; older databases
	// created without it get the column here.
	if err := db.addColumnIfNotExists("entries", "content_type",
		"TEXT NOT NULL DEFAULT ''"); err != nil {
		return fmt.Errorf("adding content_type to entries: %w", err)
	}

	return nil
}

// addColumnIfNotExists adds a column to a table only if it doesn't already exist.
// Makes ALTER TABLE migrations idempotent: safe to run multiple times.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil // column already exists
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}

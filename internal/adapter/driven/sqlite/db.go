// Package sqlite implements the durable credential persistence port on an
// embedded SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is a single-connection SQLite handle. The only traffic is one row written
// at login or token rotation and read at startup.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the SQLite database at dbPath in WAL mode.
// The parent directory is created owner-only since the file holds tokens.
func NewDB(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	return open(fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath), dbPath)
}

func open(dsn, path string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	return &DB{conn: conn, path: path}, nil
}

// Migrate applies the embedded migrations and returns the schema version.
func (db *DB) Migrate() (uint, error) {
	return runMigrations(db.conn)
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the connection.
func (db *DB) Close() error {
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("close %s: %w", db.path, err)
	}
	return nil
}

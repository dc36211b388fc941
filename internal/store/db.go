package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

var _ survey.Repository = (*DB)(nil)

// Pragmas applied by the driver to every pooled connection.
const (
	filePragmas   = "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	memoryPragmas = "?_pragma=foreign_keys(1)"
)

// DB is the artawatch SQLite database.
type DB struct {
	conn *sql.DB
}

// Open opens the database file at path, creating it and its directory when
// missing, and migrates the schema.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return open("file:"+filepath.ToSlash(path)+filePragmas, 0)
}

// OpenInMemory opens a migrated, empty in-memory database for tests.
func OpenInMemory() (*DB, error) {
	// Every pooled connection would see its own empty database.
	return open("file::memory:"+memoryPragmas, 1)
}

func open(dsn string, maxConns int) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
	}
	db := &DB{conn: conn}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrating: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

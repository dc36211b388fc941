package store

import "fmt"

// migrations[i] moves the schema from version i to i+1. The version lives in
// PRAGMA user_version.
var migrations = [][]string{
	{
		// seq is the append order; it is the only ordering the store keeps.
		`CREATE TABLE records (
			seq             INTEGER PRIMARY KEY AUTOINCREMENT,
			id              TEXT NOT NULL UNIQUE,
			timestamp       TEXT NOT NULL,
			campus          TEXT NOT NULL DEFAULT '',
			office          TEXT NOT NULL DEFAULT '',
			client_type     TEXT NOT NULL DEFAULT '[]',
			sex             TEXT NOT NULL DEFAULT '',
			age_group       TEXT NOT NULL DEFAULT '',
			document_number TEXT NOT NULL DEFAULT '',
			services        TEXT NOT NULL DEFAULT '',
			comments        TEXT NOT NULL DEFAULT '',
			cc1             TEXT NOT NULL DEFAULT '',
			cc2             TEXT NOT NULL DEFAULT '',
			cc3             TEXT NOT NULL DEFAULT '',
			sqd0            TEXT NOT NULL DEFAULT '',
			sqd1            TEXT NOT NULL DEFAULT '',
			sqd2            TEXT NOT NULL DEFAULT '',
			sqd3            TEXT NOT NULL DEFAULT '',
			sqd4            TEXT NOT NULL DEFAULT '',
			sqd5            TEXT NOT NULL DEFAULT '',
			sqd6            TEXT NOT NULL DEFAULT '',
			sqd7            TEXT NOT NULL DEFAULT '',
			sqd8            TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX idx_records_campus ON records(campus)`,
		`CREATE INDEX idx_records_office ON records(office)`,

		`CREATE TABLE offices (
			name     TEXT PRIMARY KEY,
			added_at TEXT NOT NULL
		)`,

		`CREATE TABLE snapshots (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at TEXT NOT NULL,
			command  TEXT NOT NULL,
			version  TEXT NOT NULL,
			records  INTEGER NOT NULL DEFAULT 0,
			scope    TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE aggregate_metrics (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id),
			metric_name  TEXT NOT NULL,
			metric_value REAL NOT NULL,
			detail       TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX idx_aggregate_snapshot ON aggregate_metrics(snapshot_id)`,
		`CREATE TABLE suggestions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id),
			category     TEXT NOT NULL,
			priority     INTEGER NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL,
			impact_score REAL NOT NULL,
			status       TEXT NOT NULL DEFAULT 'open'
		)`,
		`CREATE INDEX idx_suggestions_status ON suggestions(status)`,
	},
}

// SchemaVersion is the version Migrate brings a database to.
var SchemaVersion = len(migrations)

// Migrate applies every pending migration, each in its own transaction.
func (db *DB) Migrate() error {
	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > SchemaVersion {
		return fmt.Errorf("database schema v%d is newer than this build (v%d)", version, SchemaVersion)
	}
	for v := version; v < SchemaVersion; v++ {
		if err := db.migrate(v); err != nil {
			return fmt.Errorf("migration v%d: %w", v+1, err)
		}
	}
	return nil
}

func (db *DB) migrate(from int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range migrations[from] {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	// PRAGMA does not take bound parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", from+1)); err != nil {
		return err
	}
	return tx.Commit()
}

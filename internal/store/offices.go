package store

import (
	"fmt"
	"strings"
	"time"
)

// ListOffices returns the office list sorted by name.
func (db *DB) ListOffices() ([]Office, error) {
	rows, err := db.conn.Query("SELECT name, added_at FROM offices ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var offices []Office
	for rows.Next() {
		var o Office
		if err := rows.Scan(&o.Name, &o.AddedAt); err != nil {
			return nil, err
		}
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

// AddOffice adds name to the office list. It reports false when the
// office was already listed.
func (db *DB) AddOffice(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("office name is empty")
	}
	res, err := db.conn.Exec(
		"INSERT OR IGNORE INTO offices (name, added_at) VALUES (?, ?)",
		name, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RemoveOffice removes name from the office list. Records that mention the
// office are not touched.
func (db *DB) RemoveOffice(name string) error {
	res, err := db.conn.Exec("DELETE FROM offices WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("office %q: %w", name, ErrNotFound)
	}
	return nil
}

// SeedOffices adds names to an empty office list. It does nothing once any
// office exists, so user removals are not undone.
func (db *DB) SeedOffices(names []string) error {
	var n int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM offices").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, name := range names {
		if _, err := db.AddOffice(name); err != nil {
			return fmt.Errorf("seeding office %q: %w", name, err)
		}
	}
	return nil
}

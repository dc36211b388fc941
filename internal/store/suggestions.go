package store

import "database/sql"

// Suggestion statuses.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Suggestion is a recommendation as stored with the snapshot that first
// produced it.
type Suggestion struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImpactScore float64 `json:"impact_score"`
	Status      string  `json:"status"`
}

const suggestionColumns = "id, snapshot_id, category, priority, title, description, impact_score, status"

// OpenSuggestions returns every open suggestion, highest impact first.
func (db *DB) OpenSuggestions() ([]Suggestion, error) {
	return openSuggestions(db.conn)
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func openSuggestions(q querier) ([]Suggestion, error) {
	rows, err := q.Query(
		"SELECT "+suggestionColumns+" FROM suggestions WHERE status = ? ORDER BY impact_score DESC, id",
		StatusOpen,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.ID, &s.SnapshotID, &s.Category, &s.Priority,
			&s.Title, &s.Description, &s.ImpactScore, &s.Status); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReconcileSuggestions brings the open set in line with current, the
// suggestions produced for snapshotID. Open suggestions whose title is not
// in current are resolved; current suggestions not already open are stored
// as open. It returns the number resolved.
func (db *DB) ReconcileSuggestions(snapshotID int64, current []Suggestion) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	open, err := openSuggestions(tx)
	if err != nil {
		return 0, err
	}
	produced := make(map[string]bool, len(current))
	for _, s := range current {
		produced[s.Title] = true
	}

	stillOpen := make(map[string]bool, len(open))
	resolved := 0
	for _, s := range open {
		if produced[s.Title] {
			stillOpen[s.Title] = true
			continue
		}
		if _, err := tx.Exec("UPDATE suggestions SET status = ? WHERE id = ?", StatusResolved, s.ID); err != nil {
			return 0, err
		}
		resolved++
	}

	for _, s := range current {
		if stillOpen[s.Title] {
			continue
		}
		stillOpen[s.Title] = true
		if _, err := tx.Exec(
			`INSERT INTO suggestions (snapshot_id, category, priority, title, description, impact_score, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			snapshotID, s.Category, s.Priority, s.Title, s.Description, s.ImpactScore, StatusOpen,
		); err != nil {
			return 0, err
		}
	}
	return resolved, tx.Commit()
}

package store

import (
	"database/sql"
	"errors"
	"time"
)

// Snapshot is one run of `artawatch track`: when it ran and over which
// records.
type Snapshot struct {
	ID      int64     `json:"id"`
	TakenAt time.Time `json:"taken_at"`
	Command string    `json:"command"`
	Version string    `json:"version"`
	Records int       `json:"records"`
	Scope   string    `json:"scope,omitempty"`
}

// AggregateMetric is a named headline value stored with a snapshot.
type AggregateMetric struct {
	SnapshotID  int64   `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Detail      string  `json:"detail,omitempty"`
}

// Comparison pairs a snapshot with an earlier one.
type Comparison struct {
	Previous *Snapshot     `json:"previous"`
	Current  *Snapshot     `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

// MetricDelta is the change of one metric between two snapshots. Direction
// is "improved", "regressed" or "unchanged".
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"`
}

const snapshotColumns = "id, taken_at, command, version, records, scope"

// SaveSnapshot stores s and its metrics in one transaction, in the order
// given. It sets s.ID, s.TakenAt when zero, and the metrics' SnapshotID.
func (db *DB) SaveSnapshot(s *Snapshot, metrics []AggregateMetric) error {
	if s.TakenAt.IsZero() {
		s.TakenAt = time.Now().UTC().Truncate(time.Second)
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO snapshots (taken_at, command, version, records, scope) VALUES (?, ?, ?, ?, ?)",
		s.TakenAt.UTC().Format(time.RFC3339), s.Command, s.Version, s.Records, s.Scope,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO aggregate_metrics (snapshot_id, metric_name, metric_value, detail) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := range metrics {
		metrics[i].SnapshotID = id
		m := metrics[i]
		if _, err := stmt.Exec(id, m.MetricName, m.MetricValue, m.Detail); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.ID = id
	return nil
}

// NthSnapshot returns the nth most recent snapshot, 1 being the latest. It
// returns nil when fewer than n snapshots exist.
func (db *DB) NthSnapshot(n int) (*Snapshot, error) {
	if n < 1 {
		return nil, nil
	}
	s, err := scanSnapshot(db.conn.QueryRow(
		"SELECT "+snapshotColumns+" FROM snapshots ORDER BY id DESC LIMIT 1 OFFSET ?", n-1,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// RecentSnapshots returns up to n of the latest snapshots, oldest first.
func (db *DB) RecentSnapshots(n int) ([]Snapshot, error) {
	rows, err := db.conn.Query(
		"SELECT * FROM (SELECT "+snapshotColumns+" FROM snapshots ORDER BY id DESC LIMIT ?) ORDER BY id", n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var s Snapshot
	var takenAt string
	if err := row.Scan(&s.ID, &takenAt, &s.Command, &s.Version, &s.Records, &s.Scope); err != nil {
		return s, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return s, nil
}

// Metrics returns a snapshot's metrics in the order they were saved.
func (db *DB) Metrics(snapshotID int64) ([]AggregateMetric, error) {
	rows, err := db.conn.Query(
		"SELECT snapshot_id, metric_name, metric_value, detail FROM aggregate_metrics WHERE snapshot_id = ? ORDER BY id",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AggregateMetric
	for rows.Next() {
		var m AggregateMetric
		if err := rows.Scan(&m.SnapshotID, &m.MetricName, &m.MetricValue, &m.Detail); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

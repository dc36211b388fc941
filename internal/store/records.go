package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

const recordColumns = `id, timestamp, campus, office, client_type, sex, age_group,
	document_number, services, comments, cc1, cc2, cc3,
	sqd0, sqd1, sqd2, sqd3, sqd4, sqd5, sqd6, sqd7, sqd8`

const insertRecord = `INSERT INTO records (` + recordColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func recordArgs(r survey.Record) ([]any, error) {
	ct, err := json.Marshal(r.ClientType)
	if err != nil {
		return nil, err
	}
	if r.ClientType == nil {
		ct = []byte("[]")
	}
	args := []any{
		r.ID, r.Timestamp, r.Campus, r.Office, string(ct), r.Sex, r.AgeGroup,
		r.DocumentNumber, r.Services, r.Comments, r.CC1, r.CC2, r.CC3,
	}
	for _, d := range survey.Dimensions {
		args = append(args, r.SQD[d])
	}
	return args, nil
}

func scanRecord(row scanner) (survey.Record, error) {
	var r survey.Record
	var ct string
	dest := []any{
		&r.ID, &r.Timestamp, &r.Campus, &r.Office, &ct, &r.Sex, &r.AgeGroup,
		&r.DocumentNumber, &r.Services, &r.Comments, &r.CC1, &r.CC2, &r.CC3,
	}
	for _, d := range survey.Dimensions {
		dest = append(dest, &r.SQD[d])
	}
	if err := row.Scan(dest...); err != nil {
		return r, err
	}
	var tags []string
	if err := json.Unmarshal([]byte(ct), &tags); err != nil {
		return r, fmt.Errorf("decoding client_type of %s: %w", r.ID, err)
	}
	if len(tags) > 0 {
		r.ClientType = survey.ClientTypes(tags)
	}
	return r, nil
}

func insert(ex execer, r survey.Record) error {
	args, err := recordArgs(r)
	if err != nil {
		return err
	}
	_, err = ex.Exec(insertRecord, args...)
	return err
}

// Load returns every stored record in append order.
func (db *DB) Load() ([]survey.Record, error) {
	rows, err := db.conn.Query("SELECT " + recordColumns + " FROM records ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []survey.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Append stores r after every existing record.
func (db *DB) Append(r survey.Record) error {
	if err := insert(db.conn, r); err != nil {
		return fmt.Errorf("appending record %s: %w", r.ID, err)
	}
	return nil
}

// ReplaceAll swaps the whole collection for records in one transaction.
// Either every record is stored or the previous collection is kept.
func (db *DB) ReplaceAll(records []survey.Record) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return err
	}
	for _, r := range records {
		if err := insert(tx, r); err != nil {
			return fmt.Errorf("storing record %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Clear deletes every record. Offices and snapshots are kept.
func (db *DB) Clear() error {
	_, err := db.conn.Exec("DELETE FROM records")
	return err
}

// Get returns the record with the given ID.
func (db *DB) Get(id string) (survey.Record, error) {
	row := db.conn.QueryRow("SELECT "+recordColumns+" FROM records WHERE id = ?", id)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return r, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return r, err
}

// Update overwrites the stored record with r.ID in place, keeping its
// position in append order.
func (db *DB) Update(r survey.Record) error {
	args, err := recordArgs(r)
	if err != nil {
		return err
	}
	// Drop the id from the SET list and move it to the WHERE clause.
	args = append(args[1:], r.ID)
	res, err := db.conn.Exec(`UPDATE records SET
		timestamp = ?, campus = ?, office = ?, client_type = ?, sex = ?, age_group = ?,
		document_number = ?, services = ?, comments = ?, cc1 = ?, cc2 = ?, cc3 = ?,
		sqd0 = ?, sqd1 = ?, sqd2 = ?, sqd3 = ?, sqd4 = ?, sqd5 = ?, sqd6 = ?, sqd7 = ?, sqd8 = ?
		WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", r.ID, ErrNotFound)
	}
	return nil
}

// Count returns the number of stored records.
func (db *DB) Count() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM records").Scan(&n)
	return n, err
}

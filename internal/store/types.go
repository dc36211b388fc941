// Package store provides SQLite persistence for encoded survey records,
// the office list, and metric snapshots.
package store

import "errors"

// ErrNotFound is returned when a record or office does not exist.
var ErrNotFound = errors.New("not found")

// Office is one entry of the user-extensible office list.
type Office struct {
	Name    string `json:"name"`
	AddedAt string `json:"added_at"`
}

// Package watcher polls the record collection while encoding is under way
// and emits alerts when scores cross their thresholds.
package watcher

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

// Source loads the current record collection.
type Source interface {
	Load() ([]survey.Record, error)
}

// Thresholds decide when a score change is worth an alert.
type Thresholds struct {
	// Problem is the score (percent) below which a charter metric or
	// dimension is a problem area.
	Problem float64
	// DissatisfactionAlert is the office dissatisfaction rate (percent) that
	// raises a critical alert.
	DissatisfactionAlert float64
	// MinResponses is the fewest responses an office needs before its rate
	// is judged.
	MinResponses int
}

// WatchState captures the scores of the collection at one check.
type WatchState struct {
	Timestamp    time.Time
	Responses    int
	Dissatisfied int
	OverallSQD   float64
	Charter      map[string]float64 // "CC1 Awareness" etc. -> score
	Dimensions   [survey.NumDimensions]float64
	OfficeRates  map[string]float64 // office -> dissatisfaction rate
	OfficeCounts map[string]int

	// Internal: keep the records for new-response detection.
	ids     map[string]bool
	records []survey.Record
}

// Alert levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string
	Title   string
	Message string
	Time    time.Time
}

// Watcher checks the collection at a regular interval and emits alerts when
// notable changes are detected.
type Watcher struct {
	source        Source
	interval      time.Duration
	thresholds    Thresholds
	previous      *WatchState
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
	Logger        *zap.Logger
}

// New creates a Watcher over source.
func New(source Source, interval time.Duration, th Thresholds, alertFn func(Alert)) *Watcher {
	return &Watcher{
		source:        source,
		interval:      interval,
		thresholds:    th,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
		Logger:        zap.NewNop(),
	}
}

// Run starts the watch loop. It takes an initial snapshot, then checks at
// every interval. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.previous == nil {
		initial, err := w.Snapshot()
		if err != nil {
			return fmt.Errorf("initial snapshot: %w", err)
		}
		w.previous = initial
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check() {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Baseline records s as the state the next check compares against.
func (w *Watcher) Baseline(s *WatchState) {
	w.previous = s
}

// Check performs a single check cycle: takes a new snapshot, compares against
// the previous state, updates the previous state, and returns any alerts.
// Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check() []Alert {
	curr, err := w.Snapshot()
	if err != nil {
		w.Logger.Warn("watch snapshot failed", zap.Error(err))
		return []Alert{{
			Level:   LevelWarning,
			Title:   "Snapshot failed",
			Message: fmt.Sprintf("Could not read records: %v", err),
			Time:    time.Now(),
		}}
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr, w.thresholds)
	}

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.Logger.Debug("watch check",
		zap.Int("responses", curr.Responses),
		zap.Int("alerts", len(alerts)),
	)
	w.previous = curr
	return alerts
}

// Snapshot loads the collection and computes the watched scores.
func (w *Watcher) Snapshot() (*WatchState, error) {
	records, err := w.source.Load()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	return NewState(records, time.Now()), nil
}

// NewState computes the watched scores of records.
func NewState(records []survey.Record, now time.Time) *WatchState {
	s := &WatchState{
		Timestamp:  now,
		Responses:  len(records),
		OverallSQD: analyzer.OverallSQDScore(records),
		Charter: map[string]float64{
			"CC1 Awareness":   analyzer.CC1AwarenessScore(records),
			"CC2 Visibility":  analyzer.CC2VisibilityScore(records),
			"CC3 Helpfulness": analyzer.CC3HelpfulnessScore(records),
		},
		Dimensions:   analyzer.DimensionScores(records),
		OfficeRates:  make(map[string]float64),
		OfficeCounts: make(map[string]int),
		ids:          make(map[string]bool, len(records)),
		records:      records,
	}

	dissatisfied := make(map[string]int)
	for _, r := range records {
		s.ids[r.ID] = true
		office := analyzer.FieldOffice.Value(r)
		s.OfficeCounts[office]++
		if analyzer.HasDissatisfaction(r) {
			s.Dissatisfied++
			dissatisfied[office]++
		}
	}
	for office, n := range s.OfficeCounts {
		s.OfficeRates[office] = float64(dissatisfied[office]) / float64(n) * 100
	}
	return s
}

// newRecords returns records present in curr but not in prev, by ID.
func newRecords(prev, curr *WatchState) []survey.Record {
	var out []survey.Record
	for _, r := range curr.records {
		if !prev.ids[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

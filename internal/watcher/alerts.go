package watcher

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

// Compare detects notable changes between two watch states and returns alerts.
// It checks for critical, warning, and info-level changes.
func Compare(prev, curr *WatchState, th Thresholds) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr, th)...)
	alerts = append(alerts, compareWarning(prev, curr, th)...)
	alerts = append(alerts, compareInfo(prev, curr, th)...)

	return alerts
}

// scored reports whether a state has enough responses for its scores to mean
// anything.
func scored(s *WatchState) bool {
	return s.Responses > 0
}

// compareCritical detects critical-level changes.
func compareCritical(prev, curr *WatchState, th Thresholds) []Alert {
	var alerts []Alert
	now := time.Now()

	// An office's dissatisfaction rate rose to the alert level.
	for _, office := range sortedKeys(curr.OfficeRates) {
		rate := curr.OfficeRates[office]
		if curr.OfficeCounts[office] < th.MinResponses {
			continue
		}
		prevRate, seen := prev.OfficeRates[office]
		wasJudged := seen && prev.OfficeCounts[office] >= th.MinResponses
		if rate >= th.DissatisfactionAlert && (!wasJudged || prevRate < th.DissatisfactionAlert) {
			alerts = append(alerts, Alert{
				Level:   LevelCritical,
				Title:   fmt.Sprintf("Dissatisfaction at %s", office),
				Message: fmt.Sprintf("%.1f%% of %d responses are dissatisfied (alert at %.0f%%)", rate, curr.OfficeCounts[office], th.DissatisfactionAlert),
				Time:    now,
			})
		}
	}

	// Overall service quality fell below the problem threshold.
	if scored(curr) && curr.OverallSQD < th.Problem && (!scored(prev) || prev.OverallSQD >= th.Problem) {
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Title:   "Overall SQD below threshold",
			Message: fmt.Sprintf("Overall SQD is %.1f%% (threshold %.0f%%)", curr.OverallSQD, th.Problem),
			Time:    now,
		})
	}

	return alerts
}

// compareWarning detects warning-level changes.
func compareWarning(prev, curr *WatchState, th Thresholds) []Alert {
	var alerts []Alert
	now := time.Now()

	// Dimensions and charter metrics that fell below the problem threshold.
	if scored(curr) {
		for _, d := range survey.Dimensions {
			if curr.Dimensions[d] < th.Problem && (!scored(prev) || prev.Dimensions[d] >= th.Problem) {
				alerts = append(alerts, Alert{
					Level:   LevelWarning,
					Title:   fmt.Sprintf("%s %s below threshold", d.Code(), d.Name()),
					Message: fmt.Sprintf("Score is %.1f%% (was %.1f%%)", curr.Dimensions[d], prev.Dimensions[d]),
					Time:    now,
				})
			}
		}
		for _, name := range sortedKeys(curr.Charter) {
			score := curr.Charter[name]
			if score < th.Problem && (!scored(prev) || prev.Charter[name] >= th.Problem) {
				alerts = append(alerts, Alert{
					Level:   LevelWarning,
					Title:   fmt.Sprintf("%s below threshold", name),
					Message: fmt.Sprintf("Score is %.1f%% (was %.1f%%)", score, prev.Charter[name]),
					Time:    now,
				})
			}
		}
	}

	// Newly encoded responses with SD or D ratings.
	var flagged []survey.Record
	for _, r := range newRecords(prev, curr) {
		if analyzer.HasDissatisfaction(r) {
			flagged = append(flagged, r)
		}
	}
	if len(flagged) > 0 {
		offices := make(map[string]bool)
		for _, r := range flagged {
			offices[analyzer.FieldOffice.Value(r)] = true
		}
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   fmt.Sprintf("%d new dissatisfied response(s)", len(flagged)),
			Message: "Offices: " + strings.Join(sortedKeys(offices), ", "),
			Time:    now,
		})
	}

	return alerts
}

// compareInfo detects informational changes.
func compareInfo(prev, curr *WatchState, th Thresholds) []Alert {
	var alerts []Alert
	now := time.Now()

	// New responses encoded.
	if added := len(newRecords(prev, curr)); added > 0 {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   fmt.Sprintf("%d new response(s)", added),
			Message: fmt.Sprintf("%d total, overall SQD %.1f%% (was %.1f%%)", curr.Responses, curr.OverallSQD, prev.OverallSQD),
			Time:    now,
		})
	}

	// The collection was replaced or cleared.
	if curr.Responses < prev.Responses {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Collection replaced",
			Message: fmt.Sprintf("Responses went from %d to %d", prev.Responses, curr.Responses),
			Time:    now,
		})
	}

	// Dimensions that recovered above the problem threshold.
	if scored(prev) && scored(curr) {
		for _, d := range survey.Dimensions {
			if prev.Dimensions[d] < th.Problem && curr.Dimensions[d] >= th.Problem {
				alerts = append(alerts, Alert{
					Level:   LevelInfo,
					Title:   fmt.Sprintf("%s %s recovered", d.Code(), d.Name()),
					Message: fmt.Sprintf("Score is %.1f%% (was %.1f%%)", curr.Dimensions[d], prev.Dimensions[d]),
					Time:    now,
				})
			}
		}
	}

	// Offices back under the dissatisfaction alert level.
	for _, office := range sortedKeys(prev.OfficeRates) {
		prevRate := prev.OfficeRates[office]
		rate, ok := curr.OfficeRates[office]
		if !ok || prev.OfficeCounts[office] < th.MinResponses {
			continue
		}
		if prevRate >= th.DissatisfactionAlert && rate < th.DissatisfactionAlert {
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("Dissatisfaction eased at %s", office),
				Message: fmt.Sprintf("Rate is %.1f%% (was %.1f%%)", rate, prevRate),
				Time:    now,
			})
		}
	}

	return alerts
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package app

import (
	"testing"

	"github.com/blackwell-systems/artawatch/internal/store"
	"github.com/blackwell-systems/artawatch/internal/suggest"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

func TestBuildAggregateMetrics(t *testing.T) {
	records := []survey.Record{
		record("Main", "HR", survey.StronglyAgree),
		record("Main", "HR", survey.StronglyAgree),
		record("Main", "HR", survey.StronglyAgree),
		record("Main", "ICT", survey.Disagree),
	}
	m := buildAggregateMetrics(records, 70)

	if m["total_responses"] != 4 {
		t.Errorf("expected 4 responses, got %v", m["total_responses"])
	}
	if m["dissatisfaction_rate"] != 25 {
		t.Errorf("expected dissatisfaction rate 25, got %v", m["dissatisfaction_rate"])
	}
	if m["sqd0"] != 75 || m["overall_sqd"] != 75 {
		t.Errorf("expected sqd0 and overall 75, got %v and %v", m["sqd0"], m["overall_sqd"])
	}
	if m["cc1_awareness"] != 100 {
		t.Errorf("expected awareness 100, got %v", m["cc1_awareness"])
	}
	if len(m) != len(metricDisplayOrder) {
		t.Errorf("expected %d metrics, got %d", len(metricDisplayOrder), len(m))
	}
	for _, name := range metricDisplayOrder {
		if _, ok := m[name]; !ok {
			t.Errorf("metric %s missing", name)
		}
	}
}

func TestBuildAggregateMetrics_Empty(t *testing.T) {
	m := buildAggregateMetrics(nil, 70)
	if m["dissatisfaction_rate"] != 0 || m["overall_sqd"] != 0 {
		t.Errorf("expected zero metrics, got %v", m)
	}
}

func TestComputeDeltas(t *testing.T) {
	prev := []store.AggregateMetric{
		{MetricName: "overall_sqd", MetricValue: 80},
		{MetricName: "dissatisfaction_rate", MetricValue: 5},
		{MetricName: "sqd3", MetricValue: 90},
	}
	curr := []store.AggregateMetric{
		{MetricName: "overall_sqd", MetricValue: 85},
		{MetricName: "dissatisfaction_rate", MetricValue: 8},
		{MetricName: "sqd3", MetricValue: 90},
		{MetricName: "cc1_awareness", MetricValue: 60},
	}
	deltas := computeDeltas(prev, curr)
	if len(deltas) != 4 {
		t.Fatalf("expected 4 deltas, got %d", len(deltas))
	}
	want := []string{"improved", "regressed", "unchanged", "improved"}
	for i, d := range deltas {
		if d.Direction != want[i] {
			t.Errorf("%s: expected %s, got %s", d.Name, want[i], d.Direction)
		}
	}
	if deltas[3].Previous != 0 || deltas[3].Delta != 60 {
		t.Errorf("new metric delta %+v", deltas[3])
	}
}

func TestAggregateMetrics_DisplayOrder(t *testing.T) {
	got := aggregateMetrics(map[string]float64{"overall_sqd": 80, "total_responses": 4, "ignored": 1})
	if len(got) != len(metricDisplayOrder) {
		t.Fatalf("expected %d metrics, got %d", len(metricDisplayOrder), len(got))
	}
	for i, m := range got {
		if m.MetricName != metricDisplayOrder[i] {
			t.Errorf("position %d: expected %s, got %s", i, metricDisplayOrder[i], m.MetricName)
		}
	}
	if got[0].MetricValue != 4 || got[4].MetricValue != 80 {
		t.Errorf("unexpected values %+v", got[:5])
	}
}

func TestStoredSuggestions(t *testing.T) {
	in := []suggest.Suggestion{
		{Category: suggest.CategoryOffice, Priority: suggest.PriorityCritical, Title: "Review HR", Description: "d", ImpactScore: 4.5},
	}
	got := storedSuggestions(in)
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	want := store.Suggestion{Category: "office", Priority: 1, Title: "Review HR", Description: "d", ImpactScore: 4.5}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestLoadHistory(t *testing.T) {
	db := openTestDB(t)
	for i, v := range []float64{70, 75, 90} {
		s := &store.Snapshot{Command: "track", Records: i}
		if err := db.SaveSnapshot(s, aggregateMetrics(map[string]float64{"overall_sqd": v})); err != nil {
			t.Fatal(err)
		}
	}

	history, err := loadHistory(db, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].value("overall_sqd") != 75 || history[1].value("overall_sqd") != 90 {
		t.Errorf("expected oldest first, got %v then %v",
			history[0].value("overall_sqd"), history[1].value("overall_sqd"))
	}
	if history[0].value("unknown") != 0 {
		t.Error("expected 0 for a missing metric")
	}
}

func TestMetricShortName(t *testing.T) {
	tests := map[string]string{
		"overall_sqd":          "Overall SQD %",
		"dissatisfaction_rate": "Dissatisfied %",
		"sqd2":                 "SQD2 Reliability %",
		"custom":               "custom",
	}
	for name, want := range tests {
		if got := metricShortName(name); got != want {
			t.Errorf("%s: expected %q, got %q", name, want, got)
		}
	}
}

package suggest

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// --- helpers ---

func response(office, cc1, cc2, cc3, rating string) survey.Record {
	r := survey.NewRecord(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	r.Campus = "Main"
	r.Office = office
	r.CC1, r.CC2, r.CC3 = cc1, cc2, cc3
	for _, d := range survey.Dimensions {
		r.SQD[d] = rating
	}
	return r
}

func repeat(n int, r survey.Record) []survey.Record {
	out := make([]survey.Record, n)
	for i := range out {
		out[i] = r
	}
	return out
}

// --- Engine.Run ---

func TestEngineRun_EmptyRecords(t *testing.T) {
	engine := NewEngine()
	ctx := BuildContext(nil, DefaultThresholds)
	suggestions := engine.Run(ctx)
	if len(suggestions) != 0 {
		t.Errorf("expected no suggestions for an empty collection, got %+v", suggestions)
	}
}

func TestEngineRun_ZeroContext(t *testing.T) {
	// Nil slices throughout.
	_ = NewEngine().Run(&AnalysisContext{})
}

func TestEngineRun_CustomRules(t *testing.T) {
	low := func(*AnalysisContext) []Suggestion { return []Suggestion{{Title: "low", ImpactScore: 1}} }
	high := func(*AnalysisContext) []Suggestion { return []Suggestion{{Title: "high", ImpactScore: 9}} }

	got := NewEngine(low, high).Run(&AnalysisContext{})
	if len(got) != 2 || got[0].Title != "high" || got[1].Title != "low" {
		t.Errorf("expected [high low], got %+v", got)
	}
}

func TestEngineRun_ReturnsSortedByImpactScore(t *testing.T) {
	var records []survey.Record
	records = append(records, repeat(6, response("HR", "3", "4", "3", survey.Disagree))...)
	records = append(records, repeat(4, response("ICT", "1", "1", "1", survey.StronglyAgree))...)

	suggestions := NewEngine().Run(BuildContext(records, DefaultThresholds))
	if len(suggestions) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	for i := 1; i < len(suggestions); i++ {
		if suggestions[i].ImpactScore > suggestions[i-1].ImpactScore {
			t.Errorf("suggestions not sorted: index %d (%.2f) > index %d (%.2f)",
				i, suggestions[i].ImpactScore, i-1, suggestions[i-1].ImpactScore)
		}
	}

	categories := make(map[string]bool)
	for _, s := range suggestions {
		if s.Title == "" || s.Description == "" {
			t.Errorf("got incomplete suggestion %+v", s)
		}
		categories[s.Category] = true
	}
	for _, want := range []string{CategoryCharter, CategoryServiceQuality, CategoryOffice} {
		if !categories[want] {
			t.Errorf("expected a %q suggestion, got categories %v", want, categories)
		}
	}
}

// --- RankSuggestions ---

func TestRankSuggestions_StableForTies(t *testing.T) {
	in := []Suggestion{
		{Title: "a", ImpactScore: 1},
		{Title: "b", ImpactScore: 3},
		{Title: "c", ImpactScore: 1},
	}
	got := RankSuggestions(in)
	want := []string{"b", "a", "c"}
	for i, w := range want {
		if got[i].Title != w {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Title, w)
		}
	}
	if in[0].Title != "a" {
		t.Error("RankSuggestions modified its input")
	}
}

// --- ComputeImpact ---

func TestComputeImpact(t *testing.T) {
	tests := []struct {
		name                    string
		affected                int
		share, severity, effort float64
		want                    float64
	}{
		{"basic", 10, 0.5, 2, 5, 2},
		{"zero effort", 10, 0.5, 2, 0, 0},
		{"negative effort", 10, 0.5, 2, -1, 0},
		{"nobody affected", 0, 1, 4, 1, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeImpact(tc.affected, tc.share, tc.severity, tc.effort)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("ComputeImpact = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSeverityWeight_Ordering(t *testing.T) {
	prev := math.Inf(1)
	for _, p := range []int{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow} {
		w := severityWeight(p)
		if w >= prev {
			t.Errorf("severityWeight(%d) = %v, want less than %v", p, w, prev)
		}
		prev = w
	}
}

func TestTop(t *testing.T) {
	in := []Suggestion{
		{Title: "a", Category: CategoryOffice},
		{Title: "b", Category: CategoryCharter},
		{Title: "c", Category: CategoryOffice},
	}
	tests := []struct {
		name     string
		category string
		limit    int
		want     []string
	}{
		{"all", "", 0, []string{"a", "b", "c"}},
		{"limited", "", 2, []string{"a", "b"}},
		{"category", CategoryOffice, 0, []string{"a", "c"}},
		{"category limited", CategoryOffice, 1, []string{"a"}},
		{"no match", CategoryServiceQuality, 5, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Top(in, tt.category, tt.limit)
			if got == nil {
				t.Fatal("Top returned nil")
			}
			titles := make([]string, len(got))
			for i, s := range got {
				titles[i] = s.Title
			}
			if strings.Join(titles, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", titles, tt.want)
			}
		})
	}
}

func TestPriorityLabel(t *testing.T) {
	if got := PriorityLabel(PriorityHigh); got != "HIGH" {
		t.Errorf("PriorityLabel(High) = %q", got)
	}
	if got := PriorityLabel(0); got != "UNKNOWN" {
		t.Errorf("PriorityLabel(0) = %q", got)
	}
}

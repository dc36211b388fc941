package analyzer

import "testing"

func TestInterpret_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{100, LevelVeryHigh},
		{90, LevelVeryHigh},
		{89.999, LevelHigh},
		{80, LevelHigh},
		{79.999, LevelModerate},
		{70, LevelModerate},
		{69.999, LevelLow},
		{60, LevelLow},
		{59.999, LevelVeryLow},
		{0, LevelVeryLow},
		{-5, LevelVeryLow},
	}
	for _, tt := range tests {
		if got := Interpret(tt.score); got != tt.want {
			t.Errorf("Interpret(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestInterpret_Monotonic(t *testing.T) {
	prev := Interpret(0).Rank()
	for s := 0.0; s <= 100; s += 0.25 {
		r := Interpret(s).Rank()
		if r < prev {
			t.Fatalf("rank decreased at %v: %d < %d", s, r, prev)
		}
		prev = r
	}
}

func TestInterpret_NeverNoData(t *testing.T) {
	for s := -10.0; s <= 110; s += 5 {
		if Interpret(s) == LevelNoData {
			t.Fatalf("Interpret(%v) returned %q", s, LevelNoData)
		}
	}
}

func TestDescribe(t *testing.T) {
	got := InterpretMetric(92, MetricAwareness)
	if got.Level != LevelVeryHigh {
		t.Errorf("level = %q, want %q", got.Level, LevelVeryHigh)
	}
	if got.Description != "Excellent dissemination of the Citizen's Charter" {
		t.Errorf("unexpected description %q", got.Description)
	}
	if d := LevelLow.Describe(MetricServiceQuality); d != "Below standard service quality" {
		t.Errorf("unexpected description %q", d)
	}
	if d := LevelNoData.Describe(MetricVisibility); d != "No data available" {
		t.Errorf("unexpected description %q", d)
	}
}

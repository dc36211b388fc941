package suggest

import (
	"cmp"
	"slices"
)

// DefaultRules is the built-in rule set in report order.
var DefaultRules = []Rule{
	CharterAwareness,
	CharterVisibility,
	CharterHelpfulness,
	ProblemAreas,
	DimensionsNeedingImprovement,
	OfficesRequiringAttention,
	LowPerformingOffices,
}

// Engine evaluates a rule set.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine over rules, or over DefaultRules when none
// are given.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Engine{rules: rules}
}

// Run evaluates every rule against ctx and returns the findings ranked
// by impact.
func (e *Engine) Run(ctx *AnalysisContext) []Suggestion {
	var out []Suggestion
	for _, rule := range e.rules {
		out = append(out, rule(ctx)...)
	}
	return RankSuggestions(out)
}

// RankSuggestions returns a copy of suggestions ordered by ImpactScore,
// highest first. Ties keep their input order.
func RankSuggestions(suggestions []Suggestion) []Suggestion {
	ranked := slices.Clone(suggestions)
	slices.SortStableFunc(ranked, func(a, b Suggestion) int {
		return cmp.Compare(b.ImpactScore, a.ImpactScore)
	})
	return ranked
}

// ComputeImpact scores a finding as affected * share * severity / effort,
// where share is the fraction of affected respondents reporting the
// problem. A non-positive effort scores 0.
func ComputeImpact(affected int, share, severity, effort float64) float64 {
	if effort <= 0 {
		return 0
	}
	return float64(affected) * share * severity / effort
}

func severityWeight(priority int) float64 {
	switch priority {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	}
	return 1
}

// Top returns at most limit suggestions, keeping only category when it is
// set. A non-positive limit keeps all. The result is never nil.
func Top(suggestions []Suggestion, category string, limit int) []Suggestion {
	out := []Suggestion{}
	for _, s := range suggestions {
		if limit > 0 && len(out) == limit {
			break
		}
		if category == "" || s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// PriorityLabel names a priority level for display.
func PriorityLabel(priority int) string {
	switch priority {
	case PriorityCritical:
		return "CRITICAL"
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityLow:
		return "LOW"
	}
	return "UNKNOWN"
}

// Package suggest turns survey scores into ranked recommendations.
package suggest

import (
	"github.com/blackwell-systems/artawatch/internal/analyzer"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

// Priority levels for suggestions.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// Suggestion categories.
const (
	CategoryCharter        = "charter"
	CategoryServiceQuality = "service_quality"
	CategoryOffice         = "office"
)

// Suggestion represents an actionable improvement recommendation.
type Suggestion struct {
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImpactScore float64 `json:"impact_score"`
}

// Thresholds tune when rules fire.
type Thresholds struct {
	// Problem is the score below which a charter metric or dimension is a
	// problem area.
	Problem float64 `json:"problem"`

	// LowOfficeMinResponses is the fewest responses an office needs before
	// it can be flagged as low performing.
	LowOfficeMinResponses int `json:"low_office_min_responses"`

	// DissatisfactionAlert is the office dissatisfaction rate (percent) at
	// which the office needs attention.
	DissatisfactionAlert float64 `json:"dissatisfaction_alert"`

	// DimensionNegative is the negative answer share (percent) at which a
	// dimension needs improvement.
	DimensionNegative float64 `json:"dimension_negative"`
}

// DefaultThresholds match the ARTA report conventions.
var DefaultThresholds = Thresholds{
	Problem:               analyzer.DefaultProblemThreshold,
	LowOfficeMinResponses: 5,
	DissatisfactionAlert:  10,
	DimensionNegative:     10,
}

// AnalysisContext provides all data needed by suggest rules to generate
// recommendations.
type AnalysisContext struct {
	TotalResponses int `json:"total_responses"`

	Summary analyzer.Summary              `json:"summary"`
	Charter analyzer.CharterDistributions `json:"charter"`
	Offices []analyzer.OfficeScore        `json:"offices"`

	// DimensionIssues is ordered lowest favorable score first.
	DimensionIssues []analyzer.DimensionDissatisfactionRow `json:"dimension_issues"`

	// OfficeIssues is ordered lowest overall SQD score first.
	OfficeIssues []analyzer.OfficeDissatisfactionRow `json:"office_issues"`

	Thresholds Thresholds `json:"thresholds"`
}

// BuildContext runs the analyzers a rule set needs over records.
func BuildContext(records []survey.Record, th Thresholds) *AnalysisContext {
	return &AnalysisContext{
		TotalResponses:  len(records),
		Summary:         analyzer.Summarize(records, th.Problem),
		Charter:         analyzer.CharterBreakdown(records),
		Offices:         analyzer.OfficeScores(records),
		DimensionIssues: analyzer.DimensionDissatisfaction(records),
		OfficeIssues:    analyzer.OfficeDissatisfaction(records),
		Thresholds:      th,
	}
}

// Rule is a function that examines the analysis context and produces
// zero or more suggestions.
type Rule func(ctx *AnalysisContext) []Suggestion

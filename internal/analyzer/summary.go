package analyzer

import (
	"sort"
	"strings"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// DefaultProblemThreshold is the score below which an area is a problem.
const DefaultProblemThreshold = 70.0

// Problem area kinds.
const (
	AreaCC  = "CC"
	AreaSQD = "SQD"
)

// ProblemArea is a charter metric or dimension scoring below threshold.
type ProblemArea struct {
	Area  string  `json:"area"`
	Score float64 `json:"score"`
	Type  string  `json:"type"`
}

// Summary is the headline view of a record collection.
type Summary struct {
	TotalResponses int `json:"total_responses"`
	CampusCount    int `json:"campus_count"`
	OfficeCount    int `json:"office_count"`

	Awareness        float64 `json:"awareness"`
	AwarenessLevel   Level   `json:"awareness_interpretation"`
	Visibility       float64 `json:"visibility"`
	VisibilityLevel  Level   `json:"visibility_interpretation"`
	Helpfulness      float64 `json:"helpfulness"`
	HelpfulnessLevel Level   `json:"helpfulness_interpretation"`
	OverallSQD       float64 `json:"overall_sqd"`
	OverallSQDLevel  Level   `json:"overall_sqd_interpretation"`

	Dimensions   []DimensionScore `json:"sqd_by_dimension"`
	ProblemAreas []ProblemArea    `json:"problem_areas"`
}

// Summarize computes headline scores and the problem areas scoring below
// threshold, worst first. An empty collection reports LevelNoData.
func Summarize(records []survey.Record, threshold float64) Summary {
	if len(records) == 0 {
		return Summary{
			AwarenessLevel:   LevelNoData,
			VisibilityLevel:  LevelNoData,
			HelpfulnessLevel: LevelNoData,
			OverallSQDLevel:  LevelNoData,
			Dimensions:       []DimensionScore{},
			ProblemAreas:     []ProblemArea{},
		}
	}

	campuses := make(map[string]bool)
	offices := make(map[string]bool)
	for _, r := range records {
		if c := strings.TrimSpace(r.Campus); c != "" {
			campuses[c] = true
		}
		if o := strings.TrimSpace(r.Office); o != "" {
			offices[o] = true
		}
	}

	s := Summary{
		TotalResponses: len(records),
		CampusCount:    len(campuses),
		OfficeCount:    len(offices),
		Awareness:      CC1AwarenessScore(records),
		Visibility:     CC2VisibilityScore(records),
		Helpfulness:    CC3HelpfulnessScore(records),
		OverallSQD:     OverallSQDScore(records),
		Dimensions:     dimensionScoreRows(records),
	}
	s.AwarenessLevel = Interpret(s.Awareness)
	s.VisibilityLevel = Interpret(s.Visibility)
	s.HelpfulnessLevel = Interpret(s.Helpfulness)
	s.OverallSQDLevel = Interpret(s.OverallSQD)

	s.ProblemAreas = []ProblemArea{}
	for _, cc := range []ProblemArea{
		{Area: "CC1 - Awareness", Score: s.Awareness, Type: AreaCC},
		{Area: "CC2 - Visibility", Score: s.Visibility, Type: AreaCC},
		{Area: "CC3 - Helpfulness", Score: s.Helpfulness, Type: AreaCC},
	} {
		if cc.Score < threshold {
			s.ProblemAreas = append(s.ProblemAreas, cc)
		}
	}
	for _, d := range s.Dimensions {
		if d.Score < threshold {
			s.ProblemAreas = append(s.ProblemAreas, ProblemArea{
				Area:  d.Code + " - " + d.Dimension,
				Score: d.Score,
				Type:  AreaSQD,
			})
		}
	}
	sort.SliceStable(s.ProblemAreas, func(i, j int) bool {
		return s.ProblemAreas[i].Score < s.ProblemAreas[j].Score
	})
	return s
}

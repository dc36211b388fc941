package analyzer

import (
	"sort"
	"strings"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// DimensionScore is the favorable score of one dimension.
type DimensionScore struct {
	Code      string  `json:"code"`
	Dimension string  `json:"dimension"`
	Score     float64 `json:"score"`
	Level     Level   `json:"interpretation"`
}

func dimensionScoreRows(records []survey.Record) []DimensionScore {
	scores := DimensionScores(records)
	rows := make([]DimensionScore, 0, survey.NumDimensions)
	for _, d := range survey.Dimensions {
		rows = append(rows, DimensionScore{
			Code:      d.Code(),
			Dimension: d.Name(),
			Score:     scores[d],
			Level:     Interpret(scores[d]),
		})
	}
	return rows
}

// OfficeScore holds the charter and service quality scores of one office.
type OfficeScore struct {
	Office          string           `json:"office"`
	TotalResponses  int              `json:"total_responses"`
	CC1Score        float64          `json:"cc1_score"`
	CC1Level        Level            `json:"cc1_interpretation"`
	CC2Score        float64          `json:"cc2_score"`
	CC2Level        Level            `json:"cc2_interpretation"`
	CC3Score        float64          `json:"cc3_score"`
	CC3Level        Level            `json:"cc3_interpretation"`
	Dimensions      []DimensionScore `json:"dimensions"`
	OverallSQDScore float64          `json:"overall_sqd_score"`
	OverallSQDLevel Level            `json:"overall_sqd_interpretation"`
}

// OfficeScores scores every named office, most responses first. Records
// without an office are left out; they still appear in office distributions
// under survey.Unknown.
func OfficeScores(records []survey.Record) []OfficeScore {
	var order []string
	groups := make(map[string][]survey.Record)
	for _, r := range records {
		office := strings.TrimSpace(r.Office)
		if office == "" {
			continue
		}
		if _, ok := groups[office]; !ok {
			order = append(order, office)
		}
		groups[office] = append(groups[office], r)
	}

	out := make([]OfficeScore, 0, len(order))
	for _, office := range order {
		g := groups[office]
		cc1, cc2, cc3 := CC1AwarenessScore(g), CC2VisibilityScore(g), CC3HelpfulnessScore(g)
		overall := OverallSQDScore(g)
		out = append(out, OfficeScore{
			Office:          office,
			TotalResponses:  len(g),
			CC1Score:        cc1,
			CC1Level:        Interpret(cc1),
			CC2Score:        cc2,
			CC2Level:        Interpret(cc2),
			CC3Score:        cc3,
			CC3Level:        Interpret(cc3),
			Dimensions:      dimensionScoreRows(g),
			OverallSQDScore: overall,
			OverallSQDLevel: Interpret(overall),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalResponses > out[j].TotalResponses
	})
	return out
}

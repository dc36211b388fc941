package analyzer

import (
	"sort"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// Satisfaction is the mean charter answer and mean SQD rating for a group.
type Satisfaction struct {
	AvgCC  float64 `json:"avg_cc"`
	AvgSQD float64 `json:"avg_sqd"`
	Count  int     `json:"count"`
}

// SatisfactionByDemographic cross-tabulates satisfaction by client type,
// sex and age group.
type SatisfactionByDemographic struct {
	ByClientType map[string]Satisfaction `json:"by_client_type"`
	BySex        map[string]Satisfaction `json:"by_sex"`
	ByAgeGroup   map[string]Satisfaction `json:"by_age_group"`
}

// SatisfactionCrossTab builds the three satisfaction cross-tabs.
func SatisfactionCrossTab(records []survey.Record) SatisfactionByDemographic {
	return SatisfactionByDemographic{
		ByClientType: satisfactionBy(records, FieldClientType),
		BySex:        satisfactionBy(records, FieldSex),
		ByAgeGroup:   satisfactionBy(records, FieldAgeGroup),
	}
}

func satisfactionBy(records []survey.Record, f Field) map[string]Satisfaction {
	type acc struct {
		count int
		cc    meanAccumulator
		sqd   meanAccumulator
	}
	accs := make(map[string]*acc)
	for _, r := range records {
		k := f.Value(r)
		a, ok := accs[k]
		if !ok {
			a = &acc{}
			accs[k] = a
		}
		a.count++
		a.cc.add(recordCCMean(r))
		a.sqd.add(recordSQDMean(r, allDimensions))
	}
	out := make(map[string]Satisfaction, len(accs))
	for k, a := range accs {
		out[k] = Satisfaction{AvgCC: a.cc.mean(), AvgSQD: a.sqd.mean(), Count: a.count}
	}
	return out
}

// OfficeResponse is one office's response count and satisfaction means.
type OfficeResponse struct {
	Office string  `json:"office"`
	Count  int     `json:"count"`
	AvgCC  float64 `json:"avg_cc"`
	AvgSQD float64 `json:"avg_sqd"`
}

// ResponsesByOffice returns per-office counts and means, busiest first.
func ResponsesByOffice(records []survey.Record) []OfficeResponse {
	order, groups := groupBy(records, FieldOffice)
	out := make([]OfficeResponse, 0, len(order))
	for _, office := range order {
		var cc, sqd meanAccumulator
		for _, r := range groups[office] {
			cc.add(recordCCMean(r))
			sqd.add(recordSQDMean(r, allDimensions))
		}
		out = append(out, OfficeResponse{
			Office: office,
			Count:  len(groups[office]),
			AvgCC:  cc.mean(),
			AvgSQD: sqd.mean(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// DemographicRow scores one value of a demographic field.
type DemographicRow struct {
	Category        string  `json:"category"`
	Value           string  `json:"value"`
	Count           int     `json:"count"`
	Percentage      float64 `json:"percentage"`
	OverallSQDScore float64 `json:"overall_sqd_score"`
	Level           Level   `json:"interpretation"`
}

// DemographicBreakdown scores each value of f, largest group first.
func DemographicBreakdown(records []survey.Record, f Field) []DemographicRow {
	order, groups := groupBy(records, f)
	rows := make([]DemographicRow, 0, len(order))
	for _, v := range order {
		g := groups[v]
		score := OverallSQDScore(g)
		rows = append(rows, DemographicRow{
			Category:        f.Label(),
			Value:           v,
			Count:           len(g),
			Percentage:      percent(len(g), len(records)),
			OverallSQDScore: score,
			Level:           Interpret(score),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}

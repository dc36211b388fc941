package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// IsNegative reports the two lowest Likert codes, SD and D.
func IsNegative(v string) bool {
	return v == survey.StronglyDisagree || v == survey.Disagree
}

func isNeutral(v string) bool {
	return v == survey.Neither
}

// HasDissatisfaction reports whether any of the nine dimensions is negative.
func HasDissatisfaction(r survey.Record) bool {
	for _, d := range survey.Dimensions {
		if IsNegative(r.SQD[d]) {
			return true
		}
	}
	return false
}

// ProblematicDimensions returns the codes of r's negative dimensions in
// SQD0..SQD8 order.
func ProblematicDimensions(r survey.Record) []string {
	var out []string
	for _, d := range survey.Dimensions {
		if IsNegative(r.SQD[d]) {
			out = append(out, d.Code())
		}
	}
	return out
}

// DissatisfactionSummary is the headline of the dissatisfaction report.
type DissatisfactionSummary struct {
	TotalResponses           int    `json:"total_responses"`
	TotalDissatisfied        int    `json:"total_dissatisfied"`
	DissatisfactionRate      string `json:"dissatisfaction_rate"`
	MostProblematicDimension string `json:"most_problematic_dimension"`
	OfficeWithMostIssues     string `json:"office_with_most_issues"`
	TotalNegativeRatings     int    `json:"total_negative_ratings"`
	TotalNeutralRatings      int    `json:"total_neutral_ratings"`
}

// SummarizeDissatisfaction counts dissatisfied records and negative and
// neutral answers, and names the dimension and office with the most issues.
// Ties go to the earlier dimension and the first office encountered.
func SummarizeDissatisfaction(records []survey.Record) DissatisfactionSummary {
	s := DissatisfactionSummary{
		TotalResponses:           len(records),
		DissatisfactionRate:      "0.00",
		MostProblematicDimension: string(LevelNoData),
		OfficeWithMostIssues:     string(LevelNoData),
	}
	if len(records) == 0 {
		return s
	}

	var perDim [survey.NumDimensions]int
	var officeOrder []string
	officeCounts := make(map[string]int)
	for _, r := range records {
		for _, d := range survey.Dimensions {
			switch v := r.SQD[d]; {
			case IsNegative(v):
				perDim[d]++
				s.TotalNegativeRatings++
			case isNeutral(v):
				s.TotalNeutralRatings++
			}
		}
		if HasDissatisfaction(r) {
			s.TotalDissatisfied++
			office := FieldOffice.Value(r)
			if _, ok := officeCounts[office]; !ok {
				officeOrder = append(officeOrder, office)
			}
			officeCounts[office]++
		}
	}
	s.DissatisfactionRate = formatRate(s.TotalDissatisfied, len(records))

	worst := survey.SQD0
	for _, d := range survey.Dimensions {
		if perDim[d] > perDim[worst] {
			worst = d
		}
	}
	s.MostProblematicDimension = fmt.Sprintf("%s (%d issues)", worst.Code(), perDim[worst])

	var worstOffice string
	for _, o := range officeOrder {
		if worstOffice == "" || officeCounts[o] > officeCounts[worstOffice] {
			worstOffice = o
		}
	}
	if worstOffice != "" {
		s.OfficeWithMostIssues = fmt.Sprintf("%s (%d cases)", worstOffice, officeCounts[worstOffice])
	}
	return s
}

// DimensionDissatisfactionRow breaks down one dimension's valid answers.
type DimensionDissatisfactionRow struct {
	Dimension   string `json:"dimension"`
	Name        string `json:"name"`
	Description string `json:"description"`

	StronglyDisagree int `json:"strongly_disagree"`
	Disagree         int `json:"disagree"`
	Neither          int `json:"neither"`
	Agree            int `json:"agree"`
	StronglyAgree    int `json:"strongly_agree"`
	ValidResponses   int `json:"valid_responses"`

	TotalNegative             int     `json:"total_negative"`
	NegativePercentage        string  `json:"negative_percentage"`
	TotalNeutralNegative      int     `json:"total_neutral_negative"`
	NeutralNegativePercentage string  `json:"neutral_negative_percentage"`
	FavorableScore            float64 `json:"favorable_score"`
	Level                     Level   `json:"interpretation"`
}

// DimensionDissatisfaction returns one row per dimension, lowest favorable
// score first. Ties keep SQD0..SQD8 order.
func DimensionDissatisfaction(records []survey.Record) []DimensionDissatisfactionRow {
	rows := make([]DimensionDissatisfactionRow, 0, survey.NumDimensions)
	for _, d := range survey.Dimensions {
		row := DimensionDissatisfactionRow{
			Dimension:   d.Code(),
			Name:        d.Name(),
			Description: d.Description(),
		}
		for _, r := range records {
			switch r.SQD[d] {
			case survey.StronglyDisagree:
				row.StronglyDisagree++
			case survey.Disagree:
				row.Disagree++
			case survey.Neither:
				row.Neither++
			case survey.Agree:
				row.Agree++
			case survey.StronglyAgree:
				row.StronglyAgree++
			default:
				continue
			}
			row.ValidResponses++
		}
		row.TotalNegative = row.StronglyDisagree + row.Disagree
		row.TotalNeutralNegative = row.TotalNegative + row.Neither
		row.NegativePercentage = formatRate(row.TotalNegative, row.ValidResponses)
		row.NeutralNegativePercentage = formatRate(row.TotalNeutralNegative, row.ValidResponses)
		row.FavorableScore = percent(row.Agree+row.StronglyAgree, row.ValidResponses)
		row.Level = Interpret(row.FavorableScore)
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].FavorableScore < rows[j].FavorableScore
	})
	return rows
}

// OfficeDissatisfactionRow is one office in the dissatisfaction report.
type OfficeDissatisfactionRow struct {
	Office                string   `json:"office"`
	Campus                string   `json:"campus"`
	TotalResponses        int      `json:"total_responses"`
	DissatisfiedResponses int      `json:"dissatisfied_responses"`
	DissatisfactionRate   string   `json:"dissatisfaction_rate"`
	AvgNegativeRating     string   `json:"avg_negative_rating"`
	TopIssues             []string `json:"top_issues"`
	CommentsCount         int      `json:"comments_count"`
	OverallSQDScore       float64  `json:"overall_sqd_score"`
	Level                 Level    `json:"interpretation"`
}

// maxTopIssues bounds OfficeDissatisfactionRow.TopIssues.
const maxTopIssues = 3

// OfficeDissatisfaction returns one row per office, lowest overall SQD score
// first. Campus is taken from the office's first record.
func OfficeDissatisfaction(records []survey.Record) []OfficeDissatisfactionRow {
	order, groups := groupBy(records, FieldOffice)
	rows := make([]OfficeDissatisfactionRow, 0, len(order))
	for _, office := range order {
		g := groups[office]
		row := OfficeDissatisfactionRow{
			Office:            office,
			Campus:            g[0].Campus,
			TotalResponses:    len(g),
			AvgNegativeRating: string(LevelNoData),
			TopIssues:         []string{},
		}

		var perDim [survey.NumDimensions]int
		var negSum, negCount int
		for _, r := range g {
			if strings.TrimSpace(r.Comments) != "" {
				row.CommentsCount++
			}
			if HasDissatisfaction(r) {
				row.DissatisfiedResponses++
			}
			for _, d := range survey.Dimensions {
				if v := r.SQD[d]; IsNegative(v) {
					perDim[d]++
					negSum += RatingValue(v)
					negCount++
				}
			}
		}
		row.DissatisfactionRate = formatRate(row.DissatisfiedResponses, len(g))
		if negCount > 0 {
			row.AvgNegativeRating = fmt.Sprintf("%.2f", float64(negSum)/float64(negCount))
		}
		row.TopIssues = topIssues(perDim)
		row.OverallSQDScore = OverallSQDScore(g)
		row.Level = Interpret(row.OverallSQDScore)
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].OverallSQDScore < rows[j].OverallSQDScore
	})
	return rows
}

// topIssues ranks dimensions with at least one negative answer by count.
func topIssues(perDim [survey.NumDimensions]int) []string {
	dims := make([]survey.Dimension, 0, survey.NumDimensions)
	for _, d := range survey.Dimensions {
		if perDim[d] > 0 {
			dims = append(dims, d)
		}
	}
	sort.SliceStable(dims, func(i, j int) bool {
		return perDim[dims[i]] > perDim[dims[j]]
	})
	out := []string{}
	for i, d := range dims {
		if i == maxTopIssues {
			break
		}
		out = append(out, d.Code())
	}
	return out
}

// Charter issue categories.
const (
	IssueCategoryAwareness   = "CC1 - Awareness"
	IssueCategoryVisibility  = "CC2 - Visibility"
	IssueCategoryHelpfulness = "CC3 - Helpfulness"
)

// CharterIssue is one flagged charter answer and where it occurred.
type CharterIssue struct {
	Category        string   `json:"category"`
	Issue           string   `json:"issue"`
	Count           int      `json:"count"`
	Percentage      string   `json:"percentage"`
	AffectedOffices []string `json:"affected_offices"`
	Score           float64  `json:"score"`
}

// maxAffectedOffices bounds CharterIssue.AffectedOffices.
const maxAffectedOffices = 5

// CharterIssues flags CC2 "difficult to see" and "not visible", CC3 "did not
// help" and CC1 unaware answers. Each row carries the score of the charter
// metric it belongs to and rows are sorted by that score, lowest first.
// Conditions nobody reported are omitted.
func CharterIssues(records []survey.Record) []CharterIssue {
	checks := []struct {
		category, issue string
		score           float64
		match           func(survey.Record) bool
	}{
		{IssueCategoryVisibility, "Charter is difficult to see", CC2VisibilityScore(records),
			func(r survey.Record) bool { return r.CC2 == "3" }},
		{IssueCategoryVisibility, "Charter is not visible at all", CC2VisibilityScore(records),
			func(r survey.Record) bool { return r.CC2 == "4" }},
		{IssueCategoryHelpfulness, "Charter did not help the client", CC3HelpfulnessScore(records),
			func(r survey.Record) bool { return r.CC3 == "3" }},
		{IssueCategoryAwareness, "Client does not know about Citizen's Charter", CC1AwarenessScore(records),
			func(r survey.Record) bool { return r.CC1 == "4" || r.CC1 == "5" }},
	}

	issues := []CharterIssue{}
	for _, c := range checks {
		issue := CharterIssue{
			Category:        c.category,
			Issue:           c.issue,
			Score:           c.score,
			AffectedOffices: []string{},
		}
		seen := make(map[string]bool)
		for _, r := range records {
			if !c.match(r) {
				continue
			}
			issue.Count++
			office := FieldOffice.Value(r)
			if !seen[office] && len(issue.AffectedOffices) < maxAffectedOffices {
				issue.AffectedOffices = append(issue.AffectedOffices, office)
			}
			seen[office] = true
		}
		if issue.Count == 0 {
			continue
		}
		issue.Percentage = formatRate(issue.Count, len(records))
		issues = append(issues, issue)
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Score < issues[j].Score
	})
	return issues
}

// Comment is a free-text comment with its dissatisfaction context.
type Comment struct {
	ID                    string   `json:"id"`
	Timestamp             string   `json:"timestamp"`
	Campus                string   `json:"campus"`
	Office                string   `json:"office"`
	ClientType            string   `json:"client_type"`
	DocumentNumber        string   `json:"document_number"`
	Comment               string   `json:"comment"`
	HasDissatisfaction    bool     `json:"has_dissatisfaction"`
	ProblematicDimensions []string `json:"problematic_dimensions"`
}

// Comments lists records with a non-blank comment, dissatisfied ones first.
// Relative order within each partition is preserved.
func Comments(records []survey.Record) []Comment {
	var flagged, rest []Comment
	for _, r := range records {
		if strings.TrimSpace(r.Comments) == "" {
			continue
		}
		c := Comment{
			ID:                    r.ID,
			Timestamp:             r.Timestamp,
			Campus:                r.Campus,
			Office:                r.Office,
			ClientType:            r.ClientType.String(),
			DocumentNumber:        r.DocumentNumber,
			Comment:               r.Comments,
			HasDissatisfaction:    HasDissatisfaction(r),
			ProblematicDimensions: ProblematicDimensions(r),
		}
		if c.ProblematicDimensions == nil {
			c.ProblematicDimensions = []string{}
		}
		if c.HasDissatisfaction {
			flagged = append(flagged, c)
		} else {
			rest = append(rest, c)
		}
	}
	out := make([]Comment, 0, len(flagged)+len(rest))
	out = append(out, flagged...)
	return append(out, rest...)
}

// DemographicDissatisfactionRow is the dissatisfaction rate of one value.
type DemographicDissatisfactionRow struct {
	Category            string `json:"category"`
	Value               string `json:"value"`
	TotalResponses      int    `json:"total_responses"`
	DissatisfiedCount   int    `json:"dissatisfied_count"`
	DissatisfactionRate string `json:"dissatisfaction_rate"`
}

// DemographicDissatisfactionReport groups dissatisfaction by demographic.
type DemographicDissatisfactionReport struct {
	ByAgeGroup   []DemographicDissatisfactionRow `json:"by_age_group"`
	BySex        []DemographicDissatisfactionRow `json:"by_sex"`
	ByClientType []DemographicDissatisfactionRow `json:"by_client_type"`
}

// DemographicDissatisfaction computes dissatisfaction rates per age group,
// sex and client type, highest rate first.
func DemographicDissatisfaction(records []survey.Record) DemographicDissatisfactionReport {
	return DemographicDissatisfactionReport{
		ByAgeGroup:   dissatisfactionBy(records, FieldAgeGroup),
		BySex:        dissatisfactionBy(records, FieldSex),
		ByClientType: dissatisfactionBy(records, FieldClientType),
	}
}

func dissatisfactionBy(records []survey.Record, f Field) []DemographicDissatisfactionRow {
	order, groups := groupBy(records, f)
	rows := make([]DemographicDissatisfactionRow, 0, len(order))
	rates := make(map[string]float64, len(order))
	for _, v := range order {
		g := groups[v]
		n := 0
		for _, r := range g {
			if HasDissatisfaction(r) {
				n++
			}
		}
		rates[v] = percent(n, len(g))
		rows = append(rows, DemographicDissatisfactionRow{
			Category:            f.Label(),
			Value:               v,
			TotalResponses:      len(g),
			DissatisfiedCount:   n,
			DissatisfactionRate: formatRate(n, len(g)),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rates[rows[i].Value] > rates[rows[j].Value]
	})
	return rows
}

// TrendPoint is one calendar day of the dissatisfaction trend.
type TrendPoint struct {
	Date                  string  `json:"date"`
	TotalResponses        int     `json:"total_responses"`
	DissatisfiedResponses int     `json:"dissatisfied_responses"`
	DissatisfactionRate   string  `json:"dissatisfaction_rate"`
	SQDScore              float64 `json:"sqd_score"`
}

// DissatisfactionTrends buckets records by calendar date, ascending. SQDScore
// is the bucket's overall SQD score.
func DissatisfactionTrends(records []survey.Record) []TrendPoint {
	buckets := make(map[string][]survey.Record)
	for _, r := range records {
		k := r.DateKey()
		buckets[k] = append(buckets[k], r)
	}
	points := make([]TrendPoint, 0, len(buckets))
	for date, g := range buckets {
		n := 0
		for _, r := range g {
			if HasDissatisfaction(r) {
				n++
			}
		}
		points = append(points, TrendPoint{
			Date:                  date,
			TotalResponses:        len(g),
			DissatisfiedResponses: n,
			DissatisfactionRate:   formatRate(n, len(g)),
			SQDScore:              OverallSQDScore(g),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

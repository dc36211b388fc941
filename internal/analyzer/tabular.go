package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// ConsolidatedRow is one line of the consolidated results table.
type ConsolidatedRow struct {
	Dimension          string `json:"dimension"`
	Description        string `json:"description"`
	StronglyAgree      int    `json:"strongly_agree"`
	Agree              int    `json:"agree"`
	TotalPositive      int    `json:"total_positive"`
	PositivePercentage string `json:"positive_percentage"`
}

// ConsolidatedSQDTable opens with a charter awareness row (respondents who
// know of the charter, scored as CC1AwarenessScore) followed by the nine
// dimensions in order.
func ConsolidatedSQDTable(records []survey.Record) []ConsolidatedRow {
	aware := 0
	for _, r := range records {
		if knowsCharter(r.CC1) {
			aware++
		}
	}
	rows := []ConsolidatedRow{{
		Dimension:          "CC Awareness",
		Description:        "Citizen's Charter Awareness",
		StronglyAgree:      aware,
		TotalPositive:      aware,
		PositivePercentage: formatPercent1(CC1AwarenessScore(records)),
	}}
	for _, d := range survey.Dimensions {
		row := ConsolidatedRow{
			Dimension:   d.Code(),
			Description: d.Name(),
		}
		for _, r := range records {
			switch r.SQD[d] {
			case survey.StronglyAgree:
				row.StronglyAgree++
			case survey.Agree:
				row.Agree++
			}
		}
		row.TotalPositive = row.StronglyAgree + row.Agree
		row.PositivePercentage = formatPercent1(SQDFavorableScore(records, d))
		rows = append(rows, row)
	}
	return rows
}

// ExternalServiceRow is one office in the external services table.
type ExternalServiceRow struct {
	Office            string `json:"office"`
	TotalTransactions int    `json:"total_transactions"`
	TotalResponses    int    `json:"total_responses"`
	ResponseRate      string `json:"response_rate"`
	MeanRating        string `json:"mean_rating"`
}

// ExternalServicesTable lists offices by response count. transactions gives
// the number of transactions served per office; offices missing from it use
// their response count.
func ExternalServicesTable(records []survey.Record, transactions map[string]int) []ExternalServiceRow {
	order, groups := groupBy(records, FieldOffice)
	rows := make([]ExternalServiceRow, 0, len(order))
	for _, office := range order {
		g := groups[office]
		tx, ok := transactions[office]
		if !ok {
			tx = len(g)
		}
		rows = append(rows, ExternalServiceRow{
			Office:            office,
			TotalTransactions: tx,
			TotalResponses:    len(g),
			ResponseRate:      formatPercent1(percent(len(g), tx)),
			MeanRating:        fmt.Sprintf("%.2f", pooledRating(g, allDimensions)),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalResponses > rows[j].TotalResponses
	})
	return rows
}

// ClientTypeRow is one client type in the client type breakdown.
type ClientTypeRow struct {
	CustomerType string `json:"customer_type"`
	Clients      int    `json:"clients"`
	Percentage   string `json:"percentage"`
	AvgSQD       string `json:"avg_sqd"`
}

// ClientTypeTotal labels the totals row of ClientTypeBreakdown.
const ClientTypeTotal = "TOTAL"

// ClientTypeBreakdown counts records carrying each of the citizen, business
// and government tags and their mean SQD1-SQD8 rating, then a TOTAL row over
// all records. A record with several tags counts under each of them.
func ClientTypeBreakdown(records []survey.Record) []ClientTypeRow {
	tags := []string{survey.ClientCitizen, survey.ClientBusiness, survey.ClientGovernment}
	rows := make([]ClientTypeRow, 0, len(tags)+1)
	for _, tag := range tags {
		var subset []survey.Record
		for _, r := range records {
			if r.ClientType.Has(tag) {
				subset = append(subset, r)
			}
		}
		rows = append(rows, ClientTypeRow{
			CustomerType: survey.ClientTypeLabel[tag],
			Clients:      len(subset),
			Percentage:   formatPercent1(percent(len(subset), len(records))),
			AvgSQD:       fmt.Sprintf("%.2f", pooledRating(subset, attributeDimensions)),
		})
	}
	rows = append(rows, ClientTypeRow{
		CustomerType: ClientTypeTotal,
		Clients:      len(records),
		Percentage:   formatPercent1(percent(len(records), len(records))),
		AvgSQD:       fmt.Sprintf("%.2f", pooledRating(records, attributeDimensions)),
	})
	return rows
}

// DistributionRow is one demographic value with its share and satisfaction.
type DistributionRow struct {
	Category        string `json:"category"`
	Value           string `json:"value"`
	Count           int    `json:"count"`
	Percentage      string `json:"percentage"`
	AvgSatisfaction string `json:"avg_satisfaction"`
}

// DemographicDistributionTable holds the age group and sex tables.
type DemographicDistributionTable struct {
	AgeGroup []DistributionRow `json:"age_group"`
	Sex      []DistributionRow `json:"sex"`
}

// DemographicDistribution lists age groups and sexes in first-encountered
// order with their share and mean SQD rating.
func DemographicDistribution(records []survey.Record) DemographicDistributionTable {
	return DemographicDistributionTable{
		AgeGroup: distributionRows(records, FieldAgeGroup),
		Sex:      distributionRows(records, FieldSex),
	}
}

func distributionRows(records []survey.Record, f Field) []DistributionRow {
	order, groups := groupBy(records, f)
	rows := make([]DistributionRow, 0, len(order))
	for _, v := range order {
		g := groups[v]
		rows = append(rows, DistributionRow{
			Category:        f.Label(),
			Value:           v,
			Count:           len(g),
			Percentage:      formatPercent1(percent(len(g), len(records))),
			AvgSatisfaction: fmt.Sprintf("%.2f", pooledRating(g, allDimensions)),
		})
	}
	return rows
}

// ServiceUtilizationRow is one service with its share and satisfaction.
type ServiceUtilizationRow struct {
	Service         string `json:"service"`
	Frequency       int    `json:"frequency"`
	Percentage      string `json:"percentage"`
	AvgSatisfaction string `json:"avg_satisfaction"`
}

// DefaultServiceUtilization is the length of the service utilisation table.
const DefaultServiceUtilization = 15

// ServiceUtilization ranks services by frequency with their mean SQD rating,
// keeping at most n rows.
func ServiceUtilization(records []survey.Record, n int) []ServiceUtilizationRow {
	var order []string
	groups := make(map[string][]survey.Record)
	for _, r := range records {
		s := strings.TrimSpace(r.Services)
		if s == "" {
			continue
		}
		if _, ok := groups[s]; !ok {
			order = append(order, s)
		}
		groups[s] = append(groups[s], r)
	}
	rows := make([]ServiceUtilizationRow, 0, len(order))
	for _, s := range order {
		g := groups[s]
		rows = append(rows, ServiceUtilizationRow{
			Service:         s,
			Frequency:       len(g),
			Percentage:      formatPercent1(percent(len(g), len(records))),
			AvgSatisfaction: fmt.Sprintf("%.2f", pooledRating(g, allDimensions)),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Frequency > rows[j].Frequency
	})
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// CampusComparisonRow compares one campus on the headline metrics.
type CampusComparisonRow struct {
	Campus          string `json:"campus"`
	TotalResponses  int    `json:"total_responses"`
	AwarenessRate   string `json:"awareness_rate"`
	VisibilityScore string `json:"visibility_score"`
	HelpfulnessRate string `json:"helpfulness_rate"`
	AvgSQDRating    string `json:"avg_sqd_rating"`
}

// CampusComparison scores each campus, most responses first.
func CampusComparison(records []survey.Record) []CampusComparisonRow {
	order, groups := groupBy(records, FieldCampus)
	rows := make([]CampusComparisonRow, 0, len(order))
	for _, campus := range order {
		g := groups[campus]
		rows = append(rows, CampusComparisonRow{
			Campus:          campus,
			TotalResponses:  len(g),
			AwarenessRate:   formatPercent1(CC1AwarenessScore(g)),
			VisibilityScore: formatPercent1(CC2VisibilityScore(g)),
			HelpfulnessRate: formatPercent1(CC3HelpfulnessScore(g)),
			AvgSQDRating:    fmt.Sprintf("%.2f", pooledRating(g, allDimensions)),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalResponses > rows[j].TotalResponses
	})
	return rows
}

// TabularReport bundles the six tables of the printed report.
type TabularReport struct {
	Consolidated       []ConsolidatedRow            `json:"consolidated"`
	ExternalServices   []ExternalServiceRow         `json:"external_services"`
	ClientTypes        []ClientTypeRow              `json:"client_types"`
	Demographics       DemographicDistributionTable `json:"demographics"`
	ServiceUtilization []ServiceUtilizationRow      `json:"service_utilization"`
	Campuses           []CampusComparisonRow        `json:"campuses"`
}

// Tabulate builds every table of the tabular report.
func Tabulate(records []survey.Record, transactions map[string]int) TabularReport {
	return TabularReport{
		Consolidated:       ConsolidatedSQDTable(records),
		ExternalServices:   ExternalServicesTable(records, transactions),
		ClientTypes:        ClientTypeBreakdown(records),
		Demographics:       DemographicDistribution(records),
		ServiceUtilization: ServiceUtilization(records, DefaultServiceUtilization),
		Campuses:           CampusComparison(records),
	}
}

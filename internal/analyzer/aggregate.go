package analyzer

import "github.com/blackwell-systems/artawatch/internal/survey"

// GroupMetrics is the full per-group report for one campus, office or
// demographic value.
type GroupMetrics struct {
	Field          Field  `json:"field"`
	Key            string `json:"key"`
	TotalResponses int    `json:"total_responses"`

	ClientTypeDistribution Distribution `json:"client_type_distribution"`
	SexDistribution        Distribution `json:"sex_distribution"`
	AgeGroupDistribution   Distribution `json:"age_group_distribution"`
	OfficeDistribution     Distribution `json:"office_distribution"`

	Charter CharterDistributions    `json:"cc_distributions"`
	SQD     []DimensionDistribution `json:"sqd_distribution"`

	TopServices               []ServiceCount            `json:"top_services"`
	TimeSeries                []TimePoint               `json:"time_series"`
	SatisfactionByDemographic SatisfactionByDemographic `json:"satisfaction_by_demographic"`
	ResponsesByOffice         []OfficeResponse          `json:"responses_by_office"`
}

// AnalyzeGroups groups records by f and builds GroupMetrics for each group
// in first-encountered order. topServices bounds the services list.
func AnalyzeGroups(records []survey.Record, f Field, topServices int) []GroupMetrics {
	order, groups := groupBy(records, f)
	out := make([]GroupMetrics, 0, len(order))
	for _, key := range order {
		out = append(out, analyzeGroup(f, key, groups[key], topServices))
	}
	return out
}

// AnalyzeByCampus is AnalyzeGroups by campus with the default services limit.
func AnalyzeByCampus(records []survey.Record) []GroupMetrics {
	return AnalyzeGroups(records, FieldCampus, DefaultTopServices)
}

// AnalyzeByOffice is AnalyzeGroups by office with the default services limit.
func AnalyzeByOffice(records []survey.Record) []GroupMetrics {
	return AnalyzeGroups(records, FieldOffice, DefaultTopServices)
}

func analyzeGroup(f Field, key string, items []survey.Record, topServices int) GroupMetrics {
	return GroupMetrics{
		Field:                     f,
		Key:                       key,
		TotalResponses:            len(items),
		ClientTypeDistribution:    DistributionOf(items, FieldClientType),
		SexDistribution:           DistributionOf(items, FieldSex),
		AgeGroupDistribution:      DistributionOf(items, FieldAgeGroup),
		OfficeDistribution:        DistributionOf(items, FieldOffice),
		Charter:                   CharterBreakdown(items),
		SQD:                       SQDDistributions(items),
		TopServices:               TopServices(items, topServices),
		TimeSeries:                TimeSeries(items),
		SatisfactionByDemographic: SatisfactionCrossTab(items),
		ResponsesByOffice:         ResponsesByOffice(items),
	}
}

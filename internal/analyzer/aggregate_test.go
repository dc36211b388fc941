package analyzer

import (
	"testing"

	"github.com/blackwell-systems/artawatch/internal/survey"
	"github.com/google/go-cmp/cmp"
)

func groupFixture() []survey.Record {
	a := withCC(rec("HR", "SA"), "1", "1", "1")
	a.Campus, a.Sex, a.AgeGroup = "Bulan Campus", "Female", "20-34"
	a.ClientType = survey.ClientTypes{"C"}
	a.Services = "Enrollment"
	a.Timestamp = "2025-03-02T09:00:00Z"

	b := withCC(rec("ICT", "A"), "2", "NA", "")
	b.Campus, b.Sex = "Bulan Campus", "Male"
	b.ClientType = survey.ClientTypes{"C", "G"}
	b.Services = " Enrollment "
	b.Timestamp = "2025-03-01T15:00:00Z"

	c := withCC(rec("HR", "NA"), "4", "", "")
	c.Campus = "Castilla Campus"
	c.Services = "Clearance"
	c.Timestamp = "2025-03-01T08:00:00Z"

	return []survey.Record{a, b, c}
}

func TestAnalyzeByCampus(t *testing.T) {
	groups := AnalyzeByCampus(groupFixture())
	if len(groups) != 2 {
		t.Fatalf("expected 2 campuses, got %d", len(groups))
	}
	bulan := groups[0]
	if bulan.Key != "Bulan Campus" || bulan.TotalResponses != 2 {
		t.Fatalf("unexpected first group %s/%d", bulan.Key, bulan.TotalResponses)
	}

	if diff := cmp.Diff(Distribution{"C": 1, "C, G": 1}, bulan.ClientTypeDistribution); diff != "" {
		t.Errorf("client types (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Distribution{"20-34": 1, survey.Unknown: 1}, bulan.AgeGroupDistribution); diff != "" {
		t.Errorf("age groups (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ServiceCount{{Service: "Enrollment", Count: 2}}, bulan.TopServices); diff != "" {
		t.Errorf("top services (-want +got):\n%s", diff)
	}

	wantSeries := []TimePoint{
		{Date: "2025-03-01", Responses: 1, AvgCC: 2, AvgSQD: 4},
		{Date: "2025-03-02", Responses: 1, AvgCC: 1, AvgSQD: 5},
	}
	if diff := cmp.Diff(wantSeries, bulan.TimeSeries); diff != "" {
		t.Errorf("time series (-want +got):\n%s", diff)
	}

	if got := bulan.SQD[0].Mean; got != 4.5 {
		t.Errorf("SQD0 mean = %v, want 4.5", got)
	}
	if got := bulan.Charter.CC2.Count(BucketNA); got != 1 {
		t.Errorf("CC2 N/A bucket = %d, want 1", got)
	}

	sex := bulan.SatisfactionByDemographic.BySex
	if sex["Female"].AvgSQD != 5 || sex["Male"].Count != 1 {
		t.Errorf("unexpected sex cross-tab %+v", sex)
	}
}

func TestAnalyzeGroups_EveryRecordBucketed(t *testing.T) {
	records := groupFixture()
	records = append(records, survey.Record{})
	for _, f := range Fields {
		total := 0
		for _, g := range AnalyzeGroups(records, f, DefaultTopServices) {
			total += g.TotalResponses
			for name, d := range map[string]Distribution{
				"client": g.ClientTypeDistribution,
				"sex":    g.SexDistribution,
				"age":    g.AgeGroupDistribution,
				"office": g.OfficeDistribution,
			} {
				if d.Total() != g.TotalResponses {
					t.Errorf("%s/%s: %s distribution total %d != %d", f, g.Key, name, d.Total(), g.TotalResponses)
				}
			}
			for _, dd := range g.SQD {
				if dd.Counts.Total() != g.TotalResponses {
					t.Errorf("%s/%s: %s counts total %d != %d", f, g.Key, dd.Dimension, dd.Counts.Total(), g.TotalResponses)
				}
			}
		}
		if total != len(records) {
			t.Errorf("%s: grouped %d records, want %d", f, total, len(records))
		}
	}
}

func TestAnalyzeGroups_Empty(t *testing.T) {
	if got := AnalyzeByOffice(nil); len(got) != 0 {
		t.Errorf("expected no groups, got %d", len(got))
	}
	if got := TimeSeries(nil); len(got) != 0 {
		t.Errorf("expected empty series, got %d", len(got))
	}
	if got := DistributionOf(nil, FieldSex); len(got) != 0 {
		t.Errorf("expected empty distribution, got %v", got)
	}
}

func TestTopServices_TieOrderAndLimit(t *testing.T) {
	var records []survey.Record
	for _, s := range []string{"b", "a", "c", "a", "b", "d", "", "  "} {
		records = append(records, survey.Record{Services: s})
	}
	got := TopServices(records, 3)
	want := []ServiceCount{{Service: "b", Count: 2}, {Service: "a", Count: 2}, {Service: "c", Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("top services (-want +got):\n%s", diff)
	}
}

func TestResponsesByOffice(t *testing.T) {
	got := ResponsesByOffice(groupFixture())
	if len(got) != 2 || got[0].Office != "HR" || got[0].Count != 2 {
		t.Fatalf("unexpected rows %+v", got)
	}
	// c answered only CC1 and no SQD, so it counts toward AvgCC alone.
	if got[0].AvgCC != 2.5 || got[0].AvgSQD != 5 {
		t.Errorf("HR means = %v/%v, want 2.5/5", got[0].AvgCC, got[0].AvgSQD)
	}
}

func TestParseField(t *testing.T) {
	for in, want := range map[string]Field{"campus": FieldCampus, "age-group": FieldAgeGroup, "CLIENT_TYPE": FieldClientType} {
		got, err := ParseField(in)
		if err != nil || got != want {
			t.Errorf("ParseField(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseField("colour"); err == nil {
		t.Error("expected error for unknown field")
	}
}

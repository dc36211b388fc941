package analyzer

import (
	"math"
	"testing"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// rec builds a record with all nine dimensions set to sqd.
func rec(office string, sqd string) survey.Record {
	r := survey.Record{Office: office, Campus: "Main", Timestamp: "2025-01-10T08:00:00Z"}
	for _, d := range survey.Dimensions {
		r.SQD[d] = sqd
	}
	return r
}

// withCC returns r with the three charter answers set.
func withCC(r survey.Record, cc1, cc2, cc3 string) survey.Record {
	r.CC1, r.CC2, r.CC3 = cc1, cc2, cc3
	return r
}

// withSQD returns r with dimension d set to v.
func withSQD(r survey.Record, d survey.Dimension, v string) survey.Record {
	r.SQD[d] = v
	return r
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

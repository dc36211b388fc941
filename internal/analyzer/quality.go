package analyzer

import (
	"fmt"
	"math"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// RatingValue maps a Likert code onto 1-5. NA and anything unrecognised
// map to 0 and must be filtered out before averaging.
func RatingValue(v string) int {
	switch v {
	case survey.StronglyDisagree:
		return 1
	case survey.Disagree:
		return 2
	case survey.Neither:
		return 3
	case survey.Agree:
		return 4
	case survey.StronglyAgree:
		return 5
	}
	return 0
}

// isFavorable reports Agree or Strongly Agree.
func isFavorable(v string) bool {
	return v == survey.Agree || v == survey.StronglyAgree
}

// SQDFavorableScore is the share of A/SA answers among the valid answers for
// dimension d. NA, empty and unrecognised values leave the population.
func SQDFavorableScore(records []survey.Record, d survey.Dimension) float64 {
	if !d.Valid() {
		return 0
	}
	var valid, favorable int
	for _, r := range records {
		v := r.SQD[d]
		if RatingValue(v) == 0 {
			continue
		}
		valid++
		if isFavorable(v) {
			favorable++
		}
	}
	return percent(favorable, valid)
}

// DimensionScores returns SQDFavorableScore for all nine dimensions, indexed
// by survey.Dimension.
func DimensionScores(records []survey.Record) [survey.NumDimensions]float64 {
	var scores [survey.NumDimensions]float64
	for _, d := range survey.Dimensions {
		scores[d] = SQDFavorableScore(records, d)
	}
	return scores
}

// OverallSQDScore averages the nine dimension scores, skipping any that are
// exactly zero. A dimension with real respondents and no favorable answers
// is therefore left out of the average too.
func OverallSQDScore(records []survey.Record) float64 {
	var sum float64
	var n int
	for _, s := range DimensionScores(records) {
		if s > 0 {
			sum += s
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// recordSQDMean is the mean 1-5 rating of r's valid answers across dims.
func recordSQDMean(r survey.Record, dims []survey.Dimension) (float64, bool) {
	var sum, n int
	for _, d := range dims {
		if v := RatingValue(r.SQD[d]); v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// recordCCMean is the mean of r's numeric CC1-CC3 answers. NA and empty
// answers are left out rather than counted as 0.
func recordCCMean(r survey.Record) (float64, bool) {
	var sum, n int
	for _, c := range []string{r.CC1, r.CC2, r.CC3} {
		if isCharterCode(c) {
			sum += int(c[0] - '0')
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// pooledRating is the mean 1-5 rating over every valid answer in dims across
// all records, weighting each answer equally.
func pooledRating(records []survey.Record, dims []survey.Dimension) float64 {
	var sum, n int
	for _, r := range records {
		for _, d := range dims {
			if v := RatingValue(r.SQD[d]); v > 0 {
				sum += v
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

var (
	allDimensions = survey.Dimensions[:]
	// attributeDimensions are SQD1-SQD8, the service attributes without the
	// overall satisfaction item.
	attributeDimensions = survey.Dimensions[1:]
)

// meanAccumulator averages per-record values, ignoring records that have none.
type meanAccumulator struct {
	sum float64
	n   int
}

func (m *meanAccumulator) add(v float64, ok bool) {
	if ok {
		m.sum += v
		m.n++
	}
}

func (m meanAccumulator) mean() float64 {
	if m.n == 0 {
		return 0
	}
	return round2(m.sum / float64(m.n))
}

func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// formatRate renders num/den as a percentage with two decimals.
func formatRate(num, den int) string {
	return fmt.Sprintf("%.2f", percent(num, den))
}

// formatPercent1 renders a percentage with one decimal.
func formatPercent1(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// Distribution maps a category label to its record count.
type Distribution map[string]int

// Total sums every bucket.
func (d Distribution) Total() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

// Bucket is one labelled count in an ordered distribution.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Buckets is a distribution with a fixed label order.
type Buckets []Bucket

// Count returns the count for label, or 0.
func (b Buckets) Count(label string) int {
	for _, x := range b {
		if x.Label == label {
			return x.Count
		}
	}
	return 0
}

// Total sums every bucket.
func (b Buckets) Total() int {
	n := 0
	for _, x := range b {
		n += x.Count
	}
	return n
}

// Answered sums every bucket except N/A.
func (b Buckets) Answered() int {
	return b.Total() - b.Count(BucketNA)
}

// Field names a categorical record field that reports can group by.
type Field string

const (
	FieldCampus     Field = "campus"
	FieldOffice     Field = "office"
	FieldClientType Field = "clientType"
	FieldSex        Field = "sex"
	FieldAgeGroup   Field = "ageGroup"
)

// Fields lists the groupable fields.
var Fields = []Field{FieldCampus, FieldOffice, FieldClientType, FieldSex, FieldAgeGroup}

// ParseField accepts a field key, case-insensitively, with or without dashes.
func ParseField(s string) (Field, error) {
	k := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, "-", ""), "_", ""))
	for _, f := range Fields {
		if strings.ToLower(string(f)) == k {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q (want campus, office, clientType, sex or ageGroup)", s)
}

// Label is the display heading for the field.
func (f Field) Label() string {
	switch f {
	case FieldCampus:
		return "Campus"
	case FieldOffice:
		return "Office"
	case FieldClientType:
		return "Client Type"
	case FieldSex:
		return "Sex"
	case FieldAgeGroup:
		return "Age Group"
	}
	return string(f)
}

// Value returns the bucket label for r. Empty values become survey.Unknown.
func (f Field) Value(r survey.Record) string {
	var v string
	switch f {
	case FieldCampus:
		v = r.Campus
	case FieldOffice:
		v = r.Office
	case FieldClientType:
		return r.ClientType.Label()
	case FieldSex:
		v = r.Sex
	case FieldAgeGroup:
		v = r.AgeGroup
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return survey.Unknown
	}
	return v
}

// DistributionOf counts records by field value. Every record lands in
// exactly one bucket.
func DistributionOf(records []survey.Record, f Field) Distribution {
	d := make(Distribution)
	for _, r := range records {
		d[f.Value(r)]++
	}
	return d
}

// groupBy partitions records by field value, keeping first-encountered order.
func groupBy(records []survey.Record, f Field) ([]string, map[string][]survey.Record) {
	var order []string
	groups := make(map[string][]survey.Record)
	for _, r := range records {
		k := f.Value(r)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	return order, groups
}

// DimensionDistribution is the answer breakdown and mean rating for one
// service quality dimension.
type DimensionDistribution struct {
	Dimension string       `json:"dimension"`
	Name      string       `json:"name"`
	Counts    Distribution `json:"counts"`
	Mean      float64      `json:"mean"`
}

// SQDDistributions returns one row per dimension in SQD0..SQD8 order.
// Empty or unrecognised answers are counted under survey.Unknown; the mean
// uses SD..SA only.
func SQDDistributions(records []survey.Record) []DimensionDistribution {
	rows := make([]DimensionDistribution, 0, survey.NumDimensions)
	for _, d := range survey.Dimensions {
		row := DimensionDistribution{
			Dimension: d.Code(),
			Name:      d.Name(),
			Counts:    make(Distribution),
		}
		var sum, n int
		for _, r := range records {
			v := r.SQD[d]
			if !survey.IsRating(v) {
				v = survey.Unknown
			}
			row.Counts[v]++
			if rv := RatingValue(v); rv > 0 {
				sum += rv
				n++
			}
		}
		if n > 0 {
			row.Mean = round2(float64(sum) / float64(n))
		}
		rows = append(rows, row)
	}
	return rows
}

// ServiceCount is a free-text service and how many records named it.
type ServiceCount struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

// DefaultTopServices is the length of the top services list.
const DefaultTopServices = 10

// TopServices ranks trimmed service names by frequency. Ties keep
// first-encountered order. Blank services are not counted.
func TopServices(records []survey.Record, n int) []ServiceCount {
	var out []ServiceCount
	index := make(map[string]int)
	for _, r := range records {
		s := strings.TrimSpace(r.Services)
		if s == "" {
			continue
		}
		i, ok := index[s]
		if !ok {
			i = len(out)
			index[s] = i
			out = append(out, ServiceCount{Service: s})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

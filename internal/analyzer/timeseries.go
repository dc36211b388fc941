package analyzer

import (
	"sort"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// TimePoint is one calendar day of responses.
type TimePoint struct {
	Date      string  `json:"date"`
	Responses int     `json:"responses"`
	AvgCC     float64 `json:"avg_cc"`
	AvgSQD    float64 `json:"avg_sqd"`
}

// TimeSeries buckets records by the calendar date of their timestamp and
// returns the buckets in ascending date order. AvgCC and AvgSQD average the
// per-record means; records with no numeric answer do not pull them down.
func TimeSeries(records []survey.Record) []TimePoint {
	type acc struct {
		count int
		cc    meanAccumulator
		sqd   meanAccumulator
	}
	buckets := make(map[string]*acc)
	for _, r := range records {
		key := r.DateKey()
		b, ok := buckets[key]
		if !ok {
			b = &acc{}
			buckets[key] = b
		}
		b.count++
		b.cc.add(recordCCMean(r))
		b.sqd.add(recordSQDMean(r, allDimensions))
	}

	points := make([]TimePoint, 0, len(buckets))
	for date, b := range buckets {
		points = append(points, TimePoint{
			Date:      date,
			Responses: b.count,
			AvgCC:     b.cc.mean(),
			AvgSQD:    b.sqd.mean(),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

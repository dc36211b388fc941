package analyzer

// Level is the ARTA interpretation band for a 0-100 score.
type Level string

const (
	LevelVeryHigh Level = "Very High"
	LevelHigh     Level = "High"
	LevelModerate Level = "Moderate"
	LevelLow      Level = "Low"
	LevelVeryLow  Level = "Very Low"

	// LevelNoData marks an empty population. Interpret never returns it.
	LevelNoData Level = "N/A"
)

// Interpret maps a score to its band. Lower bounds are inclusive.
func Interpret(score float64) Level {
	switch {
	case score >= 90:
		return LevelVeryHigh
	case score >= 80:
		return LevelHigh
	case score >= 70:
		return LevelModerate
	case score >= 60:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

// Rank orders levels from 0 (Very Low) to 4 (Very High); LevelNoData is -1.
func (l Level) Rank() int {
	switch l {
	case LevelVeryHigh:
		return 4
	case LevelHigh:
		return 3
	case LevelModerate:
		return 2
	case LevelLow:
		return 1
	case LevelVeryLow:
		return 0
	}
	return -1
}

// Metric selects the narrative used by Level.Describe.
type Metric string

const (
	MetricAwareness      Metric = "awareness"
	MetricVisibility     Metric = "visibility"
	MetricHelpfulness    Metric = "helpfulness"
	MetricServiceQuality Metric = "serviceQuality"
)

var levelDescriptions = map[Metric]map[Level]string{
	MetricAwareness: {
		LevelVeryHigh: "Excellent dissemination of the Citizen's Charter",
		LevelHigh:     "Good awareness, minor improvements possible",
		LevelModerate: "Adequate awareness, consider enhanced outreach",
		LevelLow:      "Low awareness, needs immediate attention",
		LevelVeryLow:  "Very low awareness, urgent action required",
	},
	MetricVisibility: {
		LevelVeryHigh: "Charter is prominently displayed and easy to find",
		LevelHigh:     "Good visibility with some improvements possible",
		LevelModerate: "Moderate visibility, consider better placement",
		LevelLow:      "Poor visibility, needs better display solutions",
		LevelVeryLow:  "Very poor visibility, urgent signage improvements needed",
	},
	MetricHelpfulness: {
		LevelVeryHigh: "Charter is extremely helpful to clients",
		LevelHigh:     "Charter is helpful with minor improvements possible",
		LevelModerate: "Moderate helpfulness, consider simplification",
		LevelLow:      "Limited helpfulness, needs content review",
		LevelVeryLow:  "Not helpful, urgent content revision needed",
	},
	MetricServiceQuality: {
		LevelVeryHigh: "Excellent service quality",
		LevelHigh:     "Good service quality",
		LevelModerate: "Adequate service quality",
		LevelLow:      "Below standard service quality",
		LevelVeryLow:  "Poor service quality, urgent improvement needed",
	},
}

// Describe returns the narrative for this level on the given metric.
func (l Level) Describe(m Metric) string {
	if l == LevelNoData {
		return "No data available"
	}
	if d, ok := levelDescriptions[m][l]; ok {
		return d
	}
	return ""
}

// Interpretation is a score with its band and narrative.
type Interpretation struct {
	Score       float64 `json:"score"`
	Level       Level   `json:"level"`
	Description string  `json:"description"`
}

// InterpretMetric interprets score for metric m.
func InterpretMetric(score float64, m Metric) Interpretation {
	level := Interpret(score)
	return Interpretation{Score: score, Level: level, Description: level.Describe(m)}
}

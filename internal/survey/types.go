// Package survey defines the encoded questionnaire record and its value domains.
package survey

// Likert response codes used by the nine service quality dimensions.
const (
	StronglyDisagree = "SD"
	Disagree         = "D"
	Neither          = "ND"
	Agree            = "A"
	StronglyAgree    = "SA"
	NotApplicable    = "NA"
)

// Unknown is the catch-all bucket label for empty category values.
const Unknown = "Unknown"

// NumDimensions is the number of service quality dimensions (SQD0..SQD8).
const NumDimensions = 9

// Dimension identifies one service quality dimension.
type Dimension int

// The nine service quality dimensions in questionnaire order.
const (
	SQD0 Dimension = iota
	SQD1
	SQD2
	SQD3
	SQD4
	SQD5
	SQD6
	SQD7
	SQD8
)

// Dimensions lists every dimension in the fixed order used by all tables.
var Dimensions = [NumDimensions]Dimension{SQD0, SQD1, SQD2, SQD3, SQD4, SQD5, SQD6, SQD7, SQD8}

type dimensionInfo struct {
	name        string
	question    string
	description string
}

var dimensionInfos = [NumDimensions]dimensionInfo{
	{"Overall Satisfaction", "I am satisfied with the service I availed.", "I am satisfied with the service I availed"},
	{"Responsiveness", "I spent a reasonable amount of time for my transaction.", "I spent a reasonable amount of time for my transaction"},
	{"Reliability", "The office followed the transaction's requirements and steps based on the information provided.", "The office followed the transaction's requirements and steps"},
	{"Access & Facilities", "The steps (including payment) I needed to do for my transaction were easy and simple.", "The steps I needed to do for my transaction were easy and simple"},
	{"Communication", "I easily found information about my transaction from the office or its website.", "I easily found information about my transaction"},
	{"Costs", "I paid a reasonable amount of fees for my transaction.", "I paid a reasonable amount of fees for my transaction"},
	{"Integrity", "I feel the office was fair to everyone, or 'walang palakasan', during my transaction.", "I feel the office was fair to everyone ('walang palakasan')"},
	{"Assurance", "I was treated courteously by the staff, and (if asked for help) the staff was helpful.", "I was treated courteously by the staff"},
	{"Outcome", "I got what I needed from the government office, or if denied, denial was sufficiently explained to me.", "I got what I needed from the government office"},
}

// Valid reports whether d is one of SQD0..SQD8.
func (d Dimension) Valid() bool {
	return d >= SQD0 && d <= SQD8
}

// Key returns the lower-case field key, e.g. "sqd3".
func (d Dimension) Key() string {
	return "sqd" + string(rune('0'+int(d)))
}

// Code returns the upper-case display code, e.g. "SQD3".
func (d Dimension) Code() string {
	return "SQD" + string(rune('0'+int(d)))
}

// Name returns the ARTA dimension name, e.g. "Responsiveness".
func (d Dimension) Name() string {
	if !d.Valid() {
		return ""
	}
	return dimensionInfos[d].name
}

// Question returns the full questionnaire statement.
func (d Dimension) Question() string {
	if !d.Valid() {
		return ""
	}
	return dimensionInfos[d].question
}

// Description returns the short statement used in report tables.
func (d Dimension) Description() string {
	if !d.Valid() {
		return ""
	}
	return dimensionInfos[d].description
}

// String implements fmt.Stringer.
func (d Dimension) String() string {
	return d.Code()
}

// ParseDimension accepts "sqd3", "SQD3" or "3".
func ParseDimension(s string) (Dimension, bool) {
	switch len(s) {
	case 1:
	case 4:
		prefix := s[:3]
		if prefix != "sqd" && prefix != "SQD" {
			return 0, false
		}
		s = s[3:]
	default:
		return 0, false
	}
	if s[0] < '0' || s[0] > '8' {
		return 0, false
	}
	return Dimension(s[0] - '0'), true
}

// Record is one encoded questionnaire response.
type Record struct {
	ID             string      `json:"id" validate:"required"`
	Timestamp      string      `json:"timestamp" validate:"required"`
	Campus         string      `json:"campus"`
	Office         string      `json:"office"`
	ClientType     ClientTypes `json:"clientType" validate:"dive,oneof=C B G 'Did not answer'"`
	Sex            string      `json:"sex" validate:"omitempty,oneof=Male Female 'Did not answer'"`
	AgeGroup       string      `json:"ageGroup" validate:"omitempty,oneof=19-B 20-34 35-49 50-64 65-UP 'Did not answer'"`
	DocumentNumber string      `json:"documentNumber"`
	Services       string      `json:"services"`
	Comments       string      `json:"comments"`

	CC1 string `json:"cc1" validate:"omitempty,oneof=1 2 3 4 5 NA"`
	CC2 string `json:"cc2" validate:"omitempty,oneof=1 2 3 4 5 NA"`
	CC3 string `json:"cc3" validate:"omitempty,oneof=1 2 3 4 5 NA"`

	// SQD holds the Likert code for each dimension, indexed by Dimension.
	SQD [NumDimensions]string `json:"-" validate:"dive,omitempty,oneof=SD D ND A SA NA"`
}

// Rating returns the raw code recorded for dimension d.
func (r Record) Rating(d Dimension) string {
	if !d.Valid() {
		return ""
	}
	return r.SQD[d]
}

// Repository persists the encoded record collection. Implementations keep
// append order; every other ordering is computed by the analyzers.
type Repository interface {
	Load() ([]Record, error)
	Append(r Record) error
	ReplaceAll(records []Record) error
	Clear() error
}

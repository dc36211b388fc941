package survey

import "strings"

// Client type tags.
const (
	ClientCitizen      = "C"
	ClientBusiness     = "B"
	ClientGovernment   = "G"
	ClientDidNotAnswer = "Did not answer"
)

// Option sets offered by the encoding form.
var (
	ClientTypeOptions = []string{ClientCitizen, ClientBusiness, ClientGovernment, ClientDidNotAnswer}
	SexOptions        = []string{"Male", "Female", "Did not answer"}
	AgeGroupOptions   = []string{"19-B", "20-34", "35-49", "50-64", "65-UP", "Did not answer"}
	CharterOptions    = []string{"1", "2", "3", "4", "5", NotApplicable}
	RatingOptions     = []string{StronglyDisagree, Disagree, Neither, Agree, StronglyAgree, NotApplicable}
)

// ClientTypeLabel maps a client type tag to its long name.
var ClientTypeLabel = map[string]string{
	ClientCitizen:      "Citizen",
	ClientBusiness:     "Business",
	ClientGovernment:   "Government",
	ClientDidNotAnswer: "Did not answer",
}

var ratingAliases = map[string]string{
	"sd": StronglyDisagree, "1": StronglyDisagree, "strongly disagree": StronglyDisagree,
	"d": Disagree, "2": Disagree, "disagree": Disagree,
	"nd": Neither, "3": Neither, "neither agree nor disagree": Neither, "neither": Neither, "neutral": Neither,
	"a": Agree, "4": Agree, "agree": Agree,
	"sa": StronglyAgree, "5": StronglyAgree, "strongly agree": StronglyAgree,
	"na": NotApplicable, "6": NotApplicable, "n/a": NotApplicable, "not applicable": NotApplicable,
}

// NormalizeRating maps legacy Likert encodings (numeric 1..6, long labels,
// any letter case) onto the canonical short codes. Values it does not
// recognise are returned trimmed but otherwise unchanged; analyzers treat
// them as absent.
func NormalizeRating(v string) string {
	v = strings.TrimSpace(v)
	if c, ok := ratingAliases[strings.ToLower(v)]; ok {
		return c
	}
	return v
}

// NormalizeCharter canonicalises a CC1..CC3 code.
func NormalizeCharter(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "na", "n/a":
		return NotApplicable
	}
	return v
}

// IsRating reports whether v is a recognised Likert code (including NA).
func IsRating(v string) bool {
	switch v {
	case StronglyDisagree, Disagree, Neither, Agree, StronglyAgree, NotApplicable:
		return true
	}
	return false
}

// ClientTypes is the ordered set of client type tags on a record.
// Known tags keep questionnaire order; unknown tags follow in encounter order.
type ClientTypes []string

// ParseClientTypes splits a scalar or comma-joined value into the canonical set.
func ParseClientTypes(s string) ClientTypes {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NewClientTypes(strings.Split(s, ",")...)
}

// NewClientTypes builds the canonical set from individual tags.
func NewClientTypes(tags ...string) ClientTypes {
	seen := make(map[string]bool, len(tags))
	var known, other []string
	for _, t := range tags {
		t = canonicalTag(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		if _, ok := ClientTypeLabel[t]; ok {
			continue
		}
		other = append(other, t)
	}
	for _, opt := range ClientTypeOptions {
		if seen[opt] {
			known = append(known, opt)
		}
	}
	if len(known)+len(other) == 0 {
		return nil
	}
	return append(known, other...)
}

func canonicalTag(t string) string {
	switch strings.ToLower(t) {
	case "c", "citizen":
		return ClientCitizen
	case "b", "business":
		return ClientBusiness
	case "g", "government":
		return ClientGovernment
	case "did not answer":
		return ClientDidNotAnswer
	}
	return t
}

// Has reports whether tag is in the set.
func (c ClientTypes) Has(tag string) bool {
	for _, t := range c {
		if t == tag {
			return true
		}
	}
	return false
}

// String joins the tags with ", ", the form used in CSV and spreadsheets.
func (c ClientTypes) String() string {
	return strings.Join(c, ", ")
}

// Label is the distribution bucket for the set: the joined tags, or Unknown.
func (c ClientTypes) Label() string {
	if len(c) == 0 {
		return Unknown
	}
	return c.String()
}

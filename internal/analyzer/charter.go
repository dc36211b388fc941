package analyzer

import "github.com/blackwell-systems/artawatch/internal/survey"

// knowsCharter reports CC1 codes 1-3: knew and saw, knew but didn't see,
// learned this visit.
func knowsCharter(cc1 string) bool {
	return cc1 == "1" || cc1 == "2" || cc1 == "3"
}

// sawCharter reports CC1 codes 1 and 3, the respondents who actually saw it.
func sawCharter(cc1 string) bool {
	return cc1 == "1" || cc1 == "3"
}

func isVisible(cc2 string) bool { return cc2 == "1" || cc2 == "2" }

func isHelpful(cc3 string) bool { return cc3 == "1" || cc3 == "2" }

// CC1AwarenessScore is the share of all respondents who know of the charter.
// Empty or unrecognised CC1 values count as not aware.
func CC1AwarenessScore(records []survey.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	aware := 0
	for _, r := range records {
		if knowsCharter(r.CC1) {
			aware++
		}
	}
	return percent(aware, len(records))
}

// CC2VisibilityScore is the share of aware respondents who found the charter
// easy or somewhat easy to see.
func CC2VisibilityScore(records []survey.Record) float64 {
	var aware, visible int
	for _, r := range records {
		if !knowsCharter(r.CC1) {
			continue
		}
		aware++
		if isVisible(r.CC2) {
			visible++
		}
	}
	return percent(visible, aware)
}

// CC3HelpfulnessScore is the share of respondents who saw the charter and
// found it helpful.
func CC3HelpfulnessScore(records []survey.Record) float64 {
	var saw, helped int
	for _, r := range records {
		if !sawCharter(r.CC1) {
			continue
		}
		saw++
		if isHelpful(r.CC3) {
			helped++
		}
	}
	return percent(helped, saw)
}

// isCharterCode reports a recognised CC answer, excluding NA.
func isCharterCode(v string) bool {
	return len(v) == 1 && v[0] >= '1' && v[0] <= '5'
}

// CC1 distribution labels.
const (
	CC1KnewAndSaw     = "Knew and saw charter"
	CC1KnewNotSeen    = "Knew but didn't see"
	CC1LearnedOnVisit = "Learned from this visit"
)

// CC2 distribution labels.
const (
	CC2Easy         = "Easy to see"
	CC2SomewhatEasy = "Somewhat easy to see"
	CC2Difficult    = "Difficult to see"
	CC2NotVisible   = "Not visible at all"
)

// CC3 distribution labels.
const (
	CC3HelpedVeryMuch = "Helped very much"
	CC3SomewhatHelped = "Somewhat helped"
	CC3DidNotHelp     = "Did not help"
)

// BucketNA collects codes a charter distribution does not name.
const BucketNA = "N/A"

var (
	cc1Labels = []string{CC1KnewAndSaw, CC1KnewNotSeen, CC1LearnedOnVisit}
	cc2Labels = []string{CC2Easy, CC2SomewhatEasy, CC2Difficult, CC2NotVisible}
	cc3Labels = []string{CC3HelpedVeryMuch, CC3SomewhatHelped, CC3DidNotHelp}
)

// CharterDistributions holds the categorical CC1-CC3 breakdowns.
type CharterDistributions struct {
	CC1 Buckets `json:"cc1"`
	CC2 Buckets `json:"cc2"`
	CC3 Buckets `json:"cc3"`
}

// CharterBreakdown counts every record once in each of the three charter
// distributions. Codes outside a question's named answers go to "N/A".
func CharterBreakdown(records []survey.Record) CharterDistributions {
	return CharterDistributions{
		CC1: codedBuckets(records, cc1Labels, func(r survey.Record) string { return r.CC1 }),
		CC2: codedBuckets(records, cc2Labels, func(r survey.Record) string { return r.CC2 }),
		CC3: codedBuckets(records, cc3Labels, func(r survey.Record) string { return r.CC3 }),
	}
}

// codedBuckets maps code "1" to labels[0], "2" to labels[1] and so on.
func codedBuckets(records []survey.Record, labels []string, code func(survey.Record) string) Buckets {
	b := make(Buckets, 0, len(labels)+1)
	for _, l := range labels {
		b = append(b, Bucket{Label: l})
	}
	b = append(b, Bucket{Label: BucketNA})
	for _, r := range records {
		c := code(r)
		idx := len(labels)
		if len(c) == 1 && c[0] >= '1' && int(c[0]-'1') < len(labels) {
			idx = int(c[0] - '1')
		}
		b[idx].Count++
	}
	return b
}

package survey

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewRecord returns an empty record stamped with a fresh ID and the current
// UTC time.
func NewRecord(now time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// Normalize canonicalises every coded field. Free text is trimmed.
func (r Record) Normalize() Record {
	r.Campus = strings.TrimSpace(r.Campus)
	r.Office = strings.TrimSpace(r.Office)
	r.Sex = strings.TrimSpace(r.Sex)
	r.AgeGroup = strings.TrimSpace(r.AgeGroup)
	r.ClientType = NewClientTypes(r.ClientType...)
	r.CC1 = NormalizeCharter(r.CC1)
	r.CC2 = NormalizeCharter(r.CC2)
	r.CC3 = NormalizeCharter(r.CC3)
	for _, d := range Dimensions {
		r.SQD[d] = NormalizeRating(r.SQD[d])
	}
	return r
}

// Fields lists the editable field names accepted by Set.
var Fields = []string{
	"timestamp", "campus", "office", "clientType", "sex", "ageGroup",
	"documentNumber", "services", "comments", "cc1", "cc2", "cc3",
	"sqd0", "sqd1", "sqd2", "sqd3", "sqd4", "sqd5", "sqd6", "sqd7", "sqd8",
}

// Set returns a copy of r with one field replaced. The ID never changes.
func (r Record) Set(field, value string) (Record, error) {
	switch field {
	case "timestamp":
		r.Timestamp = value
	case "campus":
		r.Campus = value
	case "office":
		r.Office = value
	case "clientType":
		r.ClientType = ParseClientTypes(value)
	case "sex":
		r.Sex = value
	case "ageGroup":
		r.AgeGroup = value
	case "documentNumber":
		r.DocumentNumber = value
	case "services":
		r.Services = value
	case "comments":
		r.Comments = value
	case "cc1":
		r.CC1 = NormalizeCharter(value)
	case "cc2":
		r.CC2 = NormalizeCharter(value)
	case "cc3":
		r.CC3 = NormalizeCharter(value)
	default:
		d, ok := ParseDimension(field)
		if !ok {
			return r, fmt.Errorf("unknown field %q", field)
		}
		r.SQD[d] = NormalizeRating(value)
	}
	return r, nil
}

// WithEdits applies field=value edits in order and returns the edited copy.
func (r Record) WithEdits(edits map[string]string) (Record, error) {
	for f := range edits {
		if !slices.Contains(Fields, f) {
			return r, fmt.Errorf("unknown field %q", f)
		}
	}
	out := r
	for _, f := range Fields {
		v, ok := edits[f]
		if !ok {
			continue
		}
		var err error
		if out, err = out.Set(f, v); err != nil {
			return r, err
		}
	}
	return out, nil
}

// timestampLayouts are the formats seen in encoded and imported data.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// Time parses the record timestamp, returning the zero time when no known
// layout matches.
func (r Record) Time() time.Time {
	s := strings.TrimSpace(r.Timestamp)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DateKey returns the calendar date of the timestamp as YYYY-MM-DD. Values
// that do not parse fall back to the text before the first 'T' or space.
func (r Record) DateKey() string {
	if t := r.Time(); !t.IsZero() {
		return t.Format("2006-01-02")
	}
	s := strings.TrimSpace(r.Timestamp)
	if i := strings.IndexAny(s, "T "); i > 0 {
		return strings.TrimSuffix(s[:i], ",")
	}
	if s == "" {
		return Unknown
	}
	return s
}

// recordJSON is the wire shape shared with the browser collection.
type recordJSON struct {
	ID             string          `json:"id"`
	Timestamp      string          `json:"timestamp"`
	Campus         string          `json:"campus"`
	Office         string          `json:"office"`
	ClientType     json.RawMessage `json:"clientType,omitempty"`
	Sex            string          `json:"sex"`
	AgeGroup       string          `json:"ageGroup"`
	DocumentNumber string          `json:"documentNumber"`
	Services       string          `json:"services"`
	Comments       string          `json:"comments"`
	CC1            string          `json:"cc1"`
	CC2            string          `json:"cc2"`
	CC3            string          `json:"cc3"`
	SQD0           string          `json:"sqd0"`
	SQD1           string          `json:"sqd1"`
	SQD2           string          `json:"sqd2"`
	SQD3           string          `json:"sqd3"`
	SQD4           string          `json:"sqd4"`
	SQD5           string          `json:"sqd5"`
	SQD6           string          `json:"sqd6"`
	SQD7           string          `json:"sqd7"`
	SQD8           string          `json:"sqd8"`
}

// MarshalJSON writes the flat sqd0..sqd8 layout with clientType as a list.
func (r Record) MarshalJSON() ([]byte, error) {
	ct := r.ClientType
	if ct == nil {
		ct = ClientTypes{}
	}
	ctJSON, err := json.Marshal([]string(ct))
	if err != nil {
		return nil, err
	}
	return json.Marshal(recordJSON{
		ID: r.ID, Timestamp: r.Timestamp, Campus: r.Campus, Office: r.Office,
		ClientType: ctJSON, Sex: r.Sex, AgeGroup: r.AgeGroup,
		DocumentNumber: r.DocumentNumber, Services: r.Services, Comments: r.Comments,
		CC1: r.CC1, CC2: r.CC2, CC3: r.CC3,
		SQD0: r.SQD[SQD0], SQD1: r.SQD[SQD1], SQD2: r.SQD[SQD2],
		SQD3: r.SQD[SQD3], SQD4: r.SQD[SQD4], SQD5: r.SQD[SQD5],
		SQD6: r.SQD[SQD6], SQD7: r.SQD[SQD7], SQD8: r.SQD[SQD8],
	})
}

// UnmarshalJSON accepts clientType as either a string or a list of strings
// and normalises all coded fields.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ct, err := decodeClientTypes(raw.ClientType)
	if err != nil {
		return fmt.Errorf("clientType: %w", err)
	}
	*r = Record{
		ID: raw.ID, Timestamp: raw.Timestamp, Campus: raw.Campus, Office: raw.Office,
		ClientType: ct, Sex: raw.Sex, AgeGroup: raw.AgeGroup,
		DocumentNumber: raw.DocumentNumber, Services: raw.Services, Comments: raw.Comments,
		CC1: raw.CC1, CC2: raw.CC2, CC3: raw.CC3,
		SQD: [NumDimensions]string{
			raw.SQD0, raw.SQD1, raw.SQD2, raw.SQD3, raw.SQD4,
			raw.SQD5, raw.SQD6, raw.SQD7, raw.SQD8,
		},
	}
	*r = r.Normalize()
	return nil
}

func decodeClientTypes(raw json.RawMessage) (ClientTypes, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return NewClientTypes(list...), nil
	}
	var scalar string
	if err := json.Unmarshal(raw, &scalar); err != nil {
		return nil, err
	}
	return ParseClientTypes(scalar), nil
}

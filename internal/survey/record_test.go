package survey

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	r := NewRecord(now)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "2025-03-14T09:30:00Z", r.Timestamp)

	other := NewRecord(now)
	assert.NotEqual(t, r.ID, other.ID)
}

func TestRecordJSON_ClientTypeScalarOrList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ClientTypes
	}{
		{"list", `{"id":"1","clientType":["G","C"]}`, ClientTypes{"C", "G"}},
		{"scalar", `{"id":"1","clientType":"B"}`, ClientTypes{"B"}},
		{"joined", `{"id":"1","clientType":"C, B"}`, ClientTypes{"C", "B"}},
		{"missing", `{"id":"1"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			require.NoError(t, json.Unmarshal([]byte(tt.in), &r))
			assert.Equal(t, tt.want, r.ClientType)
		})
	}
}

func TestRecordJSON_FlatSQDKeys(t *testing.T) {
	r := Record{ID: "x", Timestamp: "2025-01-01T00:00:00Z", ClientType: ClientTypes{"C"}}
	r.SQD[SQD3] = Agree

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "A", m["sqd3"])
	assert.Equal(t, "", m["sqd0"])
	assert.Equal(t, []any{"C"}, m["clientType"])
}

func TestRecordJSON_NormalizesLegacyCodes(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","sqd0":"5","sqd1":"strongly disagree","sqd2":"6","cc1":"na"}`), &r))
	assert.Equal(t, StronglyAgree, r.SQD[SQD0])
	assert.Equal(t, StronglyDisagree, r.SQD[SQD1])
	assert.Equal(t, NotApplicable, r.SQD[SQD2])
	assert.Equal(t, NotApplicable, r.CC1)
}

func TestRecordSet_KeepsID(t *testing.T) {
	r := Record{ID: "keep", Office: "HR"}
	edited, err := r.WithEdits(map[string]string{"office": "ICT", "sqd4": "sd", "clientType": "G,C"})
	require.NoError(t, err)
	assert.Equal(t, "keep", edited.ID)
	assert.Equal(t, "ICT", edited.Office)
	assert.Equal(t, StronglyDisagree, edited.SQD[SQD4])
	assert.Equal(t, ClientTypes{"C", "G"}, edited.ClientType)
	assert.Equal(t, "HR", r.Office, "original must be unchanged")
}

func TestRecordSet_UnknownField(t *testing.T) {
	r := Record{ID: "keep", Office: "HR"}
	out, err := r.WithEdits(map[string]string{"office": "ICT", "bogus": "1"})
	assert.Error(t, err)
	assert.Equal(t, "HR", out.Office)
}

func TestDateKey(t *testing.T) {
	tests := []struct {
		ts   string
		want string
	}{
		{"2025-03-14T09:30:00Z", "2025-03-14"},
		{"2025-03-14T09:30:00.123Z", "2025-03-14"},
		{"2025-03-14 09:30:00", "2025-03-14"},
		{"3/14/2025, 9:30:00 AM", "2025-03-14"},
		{"3/14/2025", "2025-03-14"},
		{"14.03.2025 later", "14.03.2025"},
		{"", Unknown},
	}
	for _, tt := range tests {
		got := Record{Timestamp: tt.ts}.DateKey()
		if got != tt.want {
			t.Errorf("DateKey(%q) = %q, want %q", tt.ts, got, tt.want)
		}
	}
}

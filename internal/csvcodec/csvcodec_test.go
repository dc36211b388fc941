package csvcodec

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

const header = "Date/Time,Campus,Age Group,Sex,Office,Services,Client Type,CC1,CC2,CC3,SQD0,SQD1,SQD2,SQD3,SQD4,SQD5,SQD6,SQD7,SQD8,Comments/Suggestions,Document Number\n"

func TestExpectedColumns(t *testing.T) {
	assert.Equal(t,
		"Date/Time, Campus, Age Group, Sex, Office, Services, Client Type, CC1, CC2, CC3, SQD0, SQD1, SQD2, SQD3, SQD4, SQD5, SQD6, SQD7, SQD8, Comments/Suggestions, Document Number",
		ExpectedColumns)
	assert.Len(t, Header, 21)
}

func TestDecode_SkipsShortLines(t *testing.T) {
	in := header +
		`2025-01-02T08:00:00Z,Bulan Campus,20-34,Female,HR,Enrollment,"C, G",1,1,1,SA,A,A,A,A,A,A,A,A,"Fast, friendly",DN-1` + "\n" +
		`2025-01-02T09:00:00Z,Bulan Campus,20-34,Male,HR,Enrollment,C,1,1,1,SA,A,A,A,A` + "\n" +
		`2025-01-03T10:00:00Z,Castilla Campus,35-49,Male,ICT,Clearance,B,4,,,D,D,ND,A,A,A,NA,A,A,` + "\n"

	core, logs := observer.New(zap.WarnLevel)
	res, err := Decode(strings.NewReader(in), WithLogger(zap.New(core)))
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 3, res.Skipped[0].Line)
	assert.Equal(t, 15, res.Skipped[0].Fields)
	assert.Equal(t, 1, logs.FilterMessage("skipping csv line").Len())

	first := res.Records[0]
	assert.Equal(t, survey.ClientTypes{"C", "G"}, first.ClientType)
	assert.Equal(t, "Fast, friendly", first.Comments)
	assert.Equal(t, "DN-1", first.DocumentNumber)
	assert.Equal(t, survey.StronglyAgree, first.SQD[survey.SQD0])

	second := res.Records[1]
	assert.Equal(t, "", second.DocumentNumber, "missing trailing column reads as empty")
	assert.Equal(t, survey.NotApplicable, second.SQD[survey.SQD6])
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDecode_UnbalancedQuoteCostsOnlyItsLine(t *testing.T) {
	good := func(doc string) string {
		return `2025-01-02T09:00:00Z,Main,20-34,Male,HR,Enrollment,C,1,1,1,A,A,A,A,A,A,A,A,A,ok,` + doc + "\n"
	}
	tests := []struct {
		name string
		bad  string
	}{
		{"unterminated comment", `2025-01-02T08:00:00Z,Main,20-34,Male,HR,Enrollment,C,1,1,1,A,A,A,A,A,A,A,A,A,"He said hi,DN-1` + "\n"},
		{"stray quote in quoted comment", `2025-01-02T08:00:00Z,Main,20-34,Male,HR,Enrollment,C,1,1,1,A,A,A,A,A,A,A,A,A,"He said "hi,DN-1` + "\n"},
		{"opening quote at office", `2025-01-02T08:00:00Z,Main,20-34,Male,"HR,Enrollment,C,1,1,1,A,A,A,A,A,A,A,A,A,x,DN-1` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode(strings.NewReader(header + tt.bad + good("DN-2") + good("DN-3")))
			require.NoError(t, err)
			require.Len(t, res.Records, 2)
			require.Len(t, res.Skipped, 1)
			assert.Equal(t, 2, res.Skipped[0].Line)
			assert.Error(t, res.Skipped[0].Err)
			assert.Equal(t, "DN-2", res.Records[0].DocumentNumber)
			assert.Equal(t, "ok", res.Records[0].Comments)
			assert.Equal(t, "DN-3", res.Records[1].DocumentNumber)
		})
	}
}

func TestDecode_CRLFAndBlankLines(t *testing.T) {
	in := strings.ReplaceAll(header, "\n", "\r\n") + "\r\n" +
		`2025-01-02T08:00:00Z,Main,20-34,Male,HR,Enrollment,C,1,1,1,A,A,A,A,A,A,A,A,A,fine,DN-1` + "\r\n"
	res, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, "DN-1", res.Records[0].DocumentNumber)
}

func TestDecode_NoRows(t *testing.T) {
	for name, in := range map[string]string{
		"empty":       "",
		"header only": header,
		"all short":   header + "a,b,c\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoRows))
			assert.Contains(t, err.Error(), "Comments/Suggestions, Document Number")
		})
	}
}

func TestDecode_StampsMissingTimestamp(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in := header + `,Main,,,HR,,,,,,A,A,A,A,A,A,A,A,A,` + "\n"
	res, err := Decode(strings.NewReader(in), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T12:00:00Z", res.Records[0].Timestamp)
}

func TestDecode_LegacyNumericCodes(t *testing.T) {
	in := header + `2025-01-02,Main,,,HR,,C,1,2,na,5,4,3,2,1,6,5,5,5,,` + "\n"
	res, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	r := res.Records[0]
	assert.Equal(t, survey.NotApplicable, r.CC3)
	assert.Equal(t, []string{"SA", "A", "ND", "D", "SD", "NA", "SA", "SA", "SA"}, r.SQD[:])
}

func TestRoundTrip(t *testing.T) {
	a := survey.NewRecord(time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC))
	a.Campus, a.Office, a.Sex, a.AgeGroup = "Sorsogon City Campus", "Finance", "Female", "50-64"
	a.ClientType = survey.ClientTypes{"B", "G"}
	a.Services = `Payment of "fees", misc`
	a.Comments = " Line one, with comma  "
	a.DocumentNumber = "0042"
	a.CC1, a.CC2, a.CC3 = "1", "2", "NA"
	for i, d := range survey.Dimensions {
		a.SQD[d] = survey.RatingOptions[i%len(survey.RatingOptions)]
	}
	b := survey.NewRecord(time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC))
	b.Office = "ICT"

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []survey.Record{a, b}))

	res, err := Decode(&buf)
	require.NoError(t, err)
	require.Empty(t, res.Skipped)

	ignoreID := cmpopts.IgnoreFields(survey.Record{}, "ID")
	if diff := cmp.Diff([]survey.Record{a, b}, res.Records, ignoreID, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_FlattensLineBreaks(t *testing.T) {
	r := survey.NewRecord(time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC))
	r.Office = "HR"
	r.Comments = "first line\nsecond line\r\nthird"

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []survey.Record{r}))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"), "header plus one record line")

	res, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "first line second line third", res.Records[0].Comments)
}

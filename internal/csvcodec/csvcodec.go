// Package csvcodec reads and writes the fixed 21-column survey CSV layout.
package csvcodec

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// Header is the column order shared by Encode and Decode.
var Header = []string{
	"Date/Time", "Campus", "Age Group", "Sex", "Office", "Services", "Client Type",
	"CC1", "CC2", "CC3",
	"SQD0", "SQD1", "SQD2", "SQD3", "SQD4", "SQD5", "SQD6", "SQD7", "SQD8",
	"Comments/Suggestions", "Document Number",
}

// ExpectedColumns is the column contract as shown to the operator.
var ExpectedColumns = strings.Join(Header, ", ")

// MinFields is the fewest fields a data line may have. The trailing
// Document Number column is optional.
const MinFields = 20

// Column positions.
const (
	colTimestamp = iota
	colCampus
	colAgeGroup
	colSex
	colOffice
	colServices
	colClientType
	colCC1
	colCC2
	colCC3
	colSQD0
	colComments = colSQD0 + survey.NumDimensions
	colDocument = colComments + 1
)

// ErrNoRows means the input held no importable data line.
var ErrNoRows = errors.New("no rows imported")

// LineError describes one skipped data line.
type LineError struct {
	Line   int
	Fields int
	Err    error
}

func (e *LineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %d fields, need at least %d", e.Line, e.Fields, MinFields)
}

func (e *LineError) Unwrap() error { return e.Err }

// Result holds the decoded records and the lines that were skipped.
type Result struct {
	Records []survey.Record
	Skipped []*LineError
}

// Decoder reads survey records from CSV.
type Decoder struct {
	r      io.Reader
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger reports skipped lines as warnings on l.
func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// WithClock sets the clock used to stamp records with no Date/Time.
func WithClock(now func() time.Time) Option {
	return func(d *Decoder) { d.now = now }
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{r: r, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// maxLineBytes bounds one physical line.
const maxLineBytes = 1 << 20

// Decode skips the header line and decodes every data line with at least
// MinFields fields. Each physical line is parsed on its own, so a quoted
// field never spans lines and an unbalanced quote only costs its own line.
// Short or malformed lines are recorded in Result.Skipped and decoding
// continues. Blank lines are ignored. Every record gets a fresh ID.
// If nothing was imported the error wraps ErrNoRows.
func (d *Decoder) Decode() (Result, error) {
	var res Result

	sc := bufio.NewScanner(d.r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line, header := 0, true
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if header {
			header = false
			continue
		}
		fields, err := splitLine(text)
		if err != nil {
			d.skip(&res, &LineError{Line: line, Err: err})
			continue
		}
		if len(fields) < MinFields {
			d.skip(&res, &LineError{Line: line, Fields: len(fields)})
			continue
		}
		res.Records = append(res.Records, d.record(fields))
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("reading csv line %d: %w", line+1, err)
	}

	if len(res.Records) == 0 {
		return res, fmt.Errorf("%w: expected columns: %s", ErrNoRows, ExpectedColumns)
	}
	d.logger.Debug("csv decoded",
		zap.Int("records", len(res.Records)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

// splitLine parses the fields of one physical line. A quote that is not
// closed before the end of the line is an error.
func splitLine(text string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	fields, err := cr.Read()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, pe.Err
		}
		return nil, err
	}
	return fields, nil
}

func (d *Decoder) skip(res *Result, le *LineError) {
	res.Skipped = append(res.Skipped, le)
	d.logger.Warn("skipping csv line",
		zap.Int("line", le.Line),
		zap.Int("fields", le.Fields),
		zap.Error(le),
	)
}

// record maps fields onto a Record. Coded columns are trimmed; the free
// text Services and Comments columns are kept as written.
func (d *Decoder) record(fields []string) survey.Record {
	raw := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	get := func(i int) string { return strings.TrimSpace(raw(i)) }

	r := survey.NewRecord(d.now())
	if ts := get(colTimestamp); ts != "" {
		r.Timestamp = ts
	}
	r.Campus = get(colCampus)
	r.AgeGroup = get(colAgeGroup)
	r.Sex = get(colSex)
	r.Office = get(colOffice)
	r.Services = raw(colServices)
	r.ClientType = survey.ParseClientTypes(get(colClientType))
	r.CC1 = get(colCC1)
	r.CC2 = get(colCC2)
	r.CC3 = get(colCC3)
	for _, dim := range survey.Dimensions {
		r.SQD[dim] = get(colSQD0 + int(dim))
	}
	r.Comments = raw(colComments)
	r.DocumentNumber = get(colDocument)
	return r.Normalize()
}

// Decode is NewDecoder(r, opts...).Decode().
func Decode(r io.Reader, opts ...Option) (Result, error) {
	return NewDecoder(r, opts...).Decode()
}

// Encode writes the header and one line per record in Header order.
func Encode(w io.Writer, records []survey.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("writing record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// lineBreaks flattens embedded line breaks, since Decode reads one record
// per physical line.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Row lays r out in Header order. Line breaks inside values become spaces.
func Row(r survey.Record) []string {
	row := make([]string, len(Header))
	row[colTimestamp] = r.Timestamp
	row[colCampus] = r.Campus
	row[colAgeGroup] = r.AgeGroup
	row[colSex] = r.Sex
	row[colOffice] = r.Office
	row[colServices] = r.Services
	row[colClientType] = r.ClientType.String()
	row[colCC1] = r.CC1
	row[colCC2] = r.CC2
	row[colCC3] = r.CC3
	for _, d := range survey.Dimensions {
		row[colSQD0+int(d)] = r.SQD[d]
	}
	row[colComments] = r.Comments
	row[colDocument] = r.DocumentNumber
	for i, v := range row {
		row[i] = lineBreaks.Replace(v)
	}
	return row
}

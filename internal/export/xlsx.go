// Package export writes and reads the "Encoded Data" spreadsheet.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/blackwell-systems/artawatch/internal/survey"
)

// SheetName is the worksheet holding one row per record.
const SheetName = "Encoded Data"

// Columns are the spreadsheet headers in order.
var Columns = []string{
	"Date/Time", "Client Type", "Sex", "Age Group", "Office", "Document Number",
	"Services", "Comments/Suggestions", "Campus",
	"CC1", "CC2", "CC3",
	"SQD0", "SQD1", "SQD2", "SQD3", "SQD4", "SQD5", "SQD6", "SQD7", "SQD8",
}

// DisplayTime renders a record timestamp for the Date/Time column. Values
// that do not parse are written as stored.
func DisplayTime(r survey.Record) string {
	t := r.Time()
	if t.IsZero() {
		return r.Timestamp
	}
	return t.Format("2006-01-02 15:04:05")
}

func row(r survey.Record) []any {
	out := []any{
		DisplayTime(r), r.ClientType.String(), r.Sex, r.AgeGroup, r.Office,
		r.DocumentNumber, r.Services, r.Comments, r.Campus,
		r.CC1, r.CC2, r.CC3,
	}
	for _, d := range survey.Dimensions {
		out = append(out, r.SQD[d])
	}
	return out
}

// WriteXLSX writes records to w as a single-sheet workbook.
func WriteXLSX(w io.Writer, records []survey.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(r)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("writing record %s: %w", r.ID, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "G", "H", 40); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// ReadXLSX reads records back from the first sheet of a workbook written by
// WriteXLSX. Columns are matched by header, so reordered sheets still load.
// Every record gets a fresh ID; rows with no values are skipped.
func ReadXLSX(r io.Reader, now time.Time) ([]survey.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if s == SheetName {
			sheet = s
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.TrimSpace(h)] = i
	}
	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []survey.Record
	for _, vals := range rows[1:] {
		if blank(vals) {
			continue
		}
		rec := survey.NewRecord(now)
		if ts := cell(vals, "Date/Time"); ts != "" {
			rec.Timestamp = ts
		}
		rec.ClientType = survey.ParseClientTypes(cell(vals, "Client Type"))
		rec.Sex = cell(vals, "Sex")
		rec.AgeGroup = cell(vals, "Age Group")
		rec.Office = cell(vals, "Office")
		rec.DocumentNumber = cell(vals, "Document Number")
		rec.Services = cell(vals, "Services")
		rec.Comments = cell(vals, "Comments/Suggestions")
		rec.Campus = cell(vals, "Campus")
		rec.CC1 = cell(vals, "CC1")
		rec.CC2 = cell(vals, "CC2")
		rec.CC3 = cell(vals, "CC3")
		for _, d := range survey.Dimensions {
			rec.SQD[d] = cell(vals, d.Code())
		}
		out = append(out, rec.Normalize())
	}
	return out, nil
}

func blank(vals []string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

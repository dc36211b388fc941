package app

import (
	"errors"
	"testing"
	"time"

	"github.com/blackwell-systems/artawatch/internal/store"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

func record(campus, office, rating string) survey.Record {
	r := survey.NewRecord(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	r.Campus, r.Office = campus, office
	r.CC1, r.CC2, r.CC3 = "1", "1", "1"
	for _, d := range survey.Dimensions {
		r.SQD[d] = rating
	}
	return r
}

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordFilter(t *testing.T) {
	records := []survey.Record{
		record("Main", "HR", survey.Agree),
		record("Main", "ICT", survey.Agree),
		record("Bulan Campus", "HR", survey.Agree),
	}

	tests := []struct {
		name   string
		filter recordFilter
		want   int
		scope  string
	}{
		{"none", recordFilter{}, 3, ""},
		{"campus", recordFilter{campus: "main"}, 2, "campus=main"},
		{"office", recordFilter{office: " HR "}, 2, "office= HR "},
		{"both", recordFilter{campus: "Bulan Campus", office: "hr"}, 1, "campus=Bulan Campus office=hr"},
		{"no match", recordFilter{office: "Library"}, 0, "office=Library"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.filter.apply(records)); got != tt.want {
				t.Errorf("apply: expected %d records, got %d", tt.want, got)
			}
			if got := tt.filter.scope(); got != tt.scope {
				t.Errorf("scope: expected %q, got %q", tt.scope, got)
			}
		})
	}

	if got := (recordFilter{office: "HR"}).heading("Report"); got != "Report (office=HR)" {
		t.Errorf("unexpected heading %q", got)
	}
	if got := (recordFilter{}).heading("Report"); got != "Report" {
		t.Errorf("unexpected heading %q", got)
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"office = HR", "comments=a=b", "cc3="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"office": "HR", "comments": "a=b", "cc3": ""}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, got[k])
		}
	}

	for _, bad := range []string{"office", "=HR"} {
		if _, err := parseAssignments([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestAddEdits(t *testing.T) {
	defer func() {
		addOffice, addClientType, addCC, addRatings, addSet = "", nil, nil, nil, nil
	}()
	addOffice = "HR"
	addClientType = []string{"C", "G"}
	addCC = []string{"1", "2"}
	addRatings = []string{"5", "4", "4", "4", "4", "4", "4", "4", "3"}
	addSet = []string{"office=ICT"}

	edits, err := addEdits()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edits["office"] != "ICT" {
		t.Errorf("expected --set to win, got office %q", edits["office"])
	}
	if edits["clientType"] != "C, G" || edits["cc2"] != "2" || edits["sqd8"] != "3" {
		t.Errorf("unexpected edits %v", edits)
	}
	if _, ok := edits["cc3"]; ok {
		t.Error("expected no cc3 edit")
	}

	addRatings = []string{"5"}
	if _, err := addEdits(); err == nil {
		t.Error("expected error for a partial --ratings list")
	}
	addRatings = nil
	addCC = []string{"1", "1", "1", "1"}
	if _, err := addEdits(); err == nil {
		t.Error("expected error for more than 3 --cc answers")
	}
}

func TestParseTransactions(t *testing.T) {
	got, err := parseTransactions([]string{"HR=120", "ICT=0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["HR"] != 120 || got["ICT"] != 0 || len(got) != 2 {
		t.Errorf("unexpected transactions %v", got)
	}
	for _, bad := range []string{"HR=many", "HR=-1", "HR"} {
		if _, err := parseTransactions([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestExportFormatFor(t *testing.T) {
	tests := []struct {
		format, path, want string
	}{
		{"", "", "csv"},
		{"", "out.XLSX", "xlsx"},
		{"", "out.json", "json"},
		{"", "out", "csv"},
		{"JSON", "out.csv", "json"},
	}
	for _, tt := range tests {
		got, err := exportFormatFor(tt.format, tt.path)
		if err != nil {
			t.Errorf("(%q, %q): unexpected error: %v", tt.format, tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("(%q, %q): expected %s, got %s", tt.format, tt.path, tt.want, got)
		}
	}
	if _, err := exportFormatFor("", "out.txt"); err == nil {
		t.Error("expected error for .txt")
	}
	if _, err := exportFormatFor("pdf", ""); err == nil {
		t.Error("expected error for pdf")
	}
}

func TestResolveID(t *testing.T) {
	db := openTestDB(t)
	a := record("Main", "HR", survey.Agree)
	a.ID = "abc12345-0000"
	b := record("Main", "HR", survey.Agree)
	b.ID = "abc99999-0000"
	if err := db.ReplaceAll([]survey.Record{a, b}); err != nil {
		t.Fatal(err)
	}

	if id, err := resolveID(db, a.ID); err != nil || id != a.ID {
		t.Errorf("exact id: got %q, %v", id, err)
	}
	if id, err := resolveID(db, "abc9"); err != nil || id != b.ID {
		t.Errorf("prefix: got %q, %v", id, err)
	}
	if _, err := resolveID(db, "abc"); err == nil {
		t.Error("expected ambiguous prefix error")
	}
	if _, err := resolveID(db, "zzz"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

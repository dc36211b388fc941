package output

import (
	"strings"
	"testing"
)

func renderLines(t *testing.T, tbl *Table) []string {
	t.Helper()
	return strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
}

func TestTable_Render(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Office", "Responses", "Overall")
	tbl.AddRow("Registrar", "120", "92.5")
	tbl.AddRow("HR", "8", "61.0")

	lines := renderLines(t, tbl)
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d lines:\n%s", len(lines), tbl)
	}
	if lines[0] != "Office     Responses  Overall" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "─────────  ─────────  ───────" {
		t.Errorf("rule = %q", lines[1])
	}
	if lines[3] != "HR         8          61.0" {
		t.Errorf("row = %q", lines[3])
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestTable_AlignRight(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Office", "N").AlignRight(1)
	tbl.AddRow("HR", "8")
	tbl.AddRow("ICT", "120")

	lines := renderLines(t, tbl)
	if lines[2] != "HR        8" {
		t.Errorf("row = %q", lines[2])
	}
	if lines[3] != "ICT     120" {
		t.Errorf("row = %q", lines[3])
	}
}

func TestTable_RaggedRows(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("A", "B")
	tbl.AddRow("only")
	tbl.AddRow("x", "y", "dropped")

	out := tbl.Render()
	if strings.Contains(out, "dropped") {
		t.Error("expected extra cell to be dropped")
	}
	if lines := renderLines(t, tbl); lines[2] != "only" {
		t.Errorf("row = %q", lines[2])
	}
}

func TestTable_NoColumns(t *testing.T) {
	if got := NewTable().Render(); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestTable_StyledCellsAlign(t *testing.T) {
	tbl := NewTable("Level", "N")
	tbl.AddRow("\x1b[31mLow\x1b[0m", "1")
	tbl.AddRow("Moderate", "2")
	if tbl.widths[0] != len("Moderate") {
		t.Errorf("width = %d, want %d", tbl.widths[0], len("Moderate"))
	}
	if got := tbl.fit(0, "\x1b[31mLow\x1b[0m"); !strings.HasSuffix(got, "Low\x1b[0m     ") {
		t.Errorf("fit = %q", got)
	}
}

func TestSetNoColor_Reversible(t *testing.T) {
	SetNoColor(true)
	if got := StyleHeader.Render("x"); strings.Contains(got, "\x1b[") {
		t.Errorf("expected plain output, got %q", got)
	}
	SetNoColor(false)
	if !StyleHeader.GetBold() {
		t.Error("expected header style to be bold again")
	}
}

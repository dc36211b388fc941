package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = "  "

// Table lays out rows under bold headers. Cell widths are measured without
// ANSI escapes, so styled cells line up.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
	right   map[int]bool
}

// NewTable starts a table with the given headers.
func NewTable(headers ...string) *Table {
	t := &Table{headers: headers, widths: make([]int, len(headers)), right: map[int]bool{}}
	for i, h := range headers {
		t.widths[i] = lipgloss.Width(h)
	}
	return t
}

// AlignRight right-aligns the given zero-based columns, typically counts and
// percentages.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// AddRow appends a row. Missing trailing cells are blank; extra cells are
// dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	for i, cell := range row {
		t.widths[i] = max(t.widths[i], lipgloss.Width(cell))
	}
	t.rows = append(t.rows, row)
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render formats the header, a rule and every row. A table with no columns
// renders as "".
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	var sb strings.Builder
	cells := make([]string, len(t.headers))

	for i, h := range t.headers {
		cells[i] = StyleHeader.Render(t.fit(i, h))
	}
	sb.WriteString(strings.Join(cells, columnGap) + "\n")

	for i, w := range t.widths {
		cells[i] = StyleMuted.Render(strings.Repeat("─", w))
	}
	sb.WriteString(strings.Join(cells, columnGap) + "\n")

	for _, row := range t.rows {
		for i, cell := range row {
			cells[i] = t.fit(i, cell)
		}
		sb.WriteString(strings.TrimRight(strings.Join(cells, columnGap), " ") + "\n")
	}
	return sb.String()
}

func (t *Table) String() string {
	return t.Render()
}

// Print writes the table to stdout.
func (t *Table) Print() {
	fmt.Print(t.Render())
}

// fit pads s to column i's width. Longer values are never cut.
func (t *Table) fit(i int, s string) string {
	gap := t.widths[i] - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if t.right[i] {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

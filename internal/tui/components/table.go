package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

// Column describes one column of a Table.
type Column struct {
	Header   string
	Width    int // fixed width; 0 means auto-size
	MinWidth int
	MaxWidth int
	Align    lipgloss.Position
}

// Table renders rows of string cells.
type Table struct {
	Columns     []Column
	Rows        [][]string
	ShowHeader  bool
	Striped     bool
	Compact     bool
	SelectedRow int
	MaxWidth    int
}

// NewTable creates a table over the given columns.
func NewTable(columns []Column) *Table {
	return &Table{
		Columns:     columns,
		ShowHeader:  true,
		Striped:     true,
		SelectedRow: -1,
	}
}

// WithRows sets the table's rows.
func (t *Table) WithRows(rows [][]string) *Table {
	t.Rows = rows
	return t
}

// WithSelection highlights the row at idx.
func (t *Table) WithSelection(idx int) *Table {
	t.SelectedRow = idx
	return t
}

// AsCompact removes row padding.
func (t *Table) AsCompact() *Table {
	t.Compact = true
	return t
}

// WithoutStripes disables alternating row backgrounds.
func (t *Table) WithoutStripes() *Table {
	t.Striped = false
	return t
}

// WithMaxWidth caps the table's total rendered width.
func (t *Table) WithMaxWidth(width int) *Table {
	t.MaxWidth = width
	return t
}

// AddRow appends one row of cells.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// calculateWidths resolves each column's rendered width: fixed columns keep
// their Width; auto columns grow to fit the widest cell, clamped to
// [MinWidth, MaxWidth] when those are set.
func (t *Table) calculateWidths() []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}

		width := len(col.Header)
		for _, row := range t.Rows {
			if i < len(row) && len(row[i]) > width {
				width = len(row[i])
			}
		}
		if col.MinWidth > 0 && width < col.MinWidth {
			width = col.MinWidth
		}
		if col.MaxWidth > 0 && width > col.MaxWidth {
			width = col.MaxWidth
		}
		widths[i] = width
	}
	return widths
}

// padCell pads or truncates content to exactly width runes, aligning per align.
func (t *Table) padCell(content string, width int, align lipgloss.Position) string {
	runes := []rune(content)
	if len(runes) > width {
		if width <= 3 {
			return string(runes[:width])
		}
		return string(runes[:width-3]) + "..."
	}

	pad := width - len(runes)
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + content
	case lipgloss.Center:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + content + strings.Repeat(" ", right)
	default:
		return content + strings.Repeat(" ", pad)
	}
}

// Render renders the table.
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	th := &theme.Current
	widths := t.calculateWidths()

	sep := " "
	if !t.Compact {
		sep = "  "
	}

	var lines []string

	if t.ShowHeader {
		var headerCells []string
		for i, col := range t.Columns {
			headerCells = append(headerCells, t.padCell(col.Header, widths[i], col.Align))
		}
		headerStyle := lipgloss.NewStyle().Foreground(th.Blue).Bold(true)
		lines = append(lines, headerStyle.Render(strings.Join(headerCells, sep)))
	}

	for r, row := range t.Rows {
		var cells []string
		for i, col := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells = append(cells, t.padCell(cell, widths[i], col.Align))
		}
		line := strings.Join(cells, sep)

		style := lipgloss.NewStyle()
		if r == t.SelectedRow {
			style = style.Foreground(th.Mauve).Bold(true)
		} else if t.Striped && r%2 == 1 {
			style = style.Foreground(th.Subtext)
		}

		lines = append(lines, style.Render(line))
	}

	return strings.Join(lines, "\n")
}

// RenderTable renders a table in one call.
func RenderTable(columns []Column, rows [][]string) string {
	return NewTable(columns).WithRows(rows).Render()
}

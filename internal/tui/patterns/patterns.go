// Package patterns implements the TUI view over the loaded pack registry:
// every pack's destructive patterns (pack, name, severity, reason),
// browsable as a table. Keywords and safe patterns are not shown.
package patterns

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/dcg/internal/packs"
	"github.com/Dicklesworthstone/dcg/internal/tui/components"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

// row is one destructive pattern flattened out of a pack for table display.
type row struct {
	packID      string
	patternName string
	severity    string
	reason      string
}

// Model lists every pack's destructive patterns.
type Model struct {
	registry *packs.Registry
	rows     []row
	selected int
	width    int
	height   int

	OnBack func() tea.Cmd
}

// New builds a patterns view over the default, process-wide pack registry.
func New() Model {
	reg := packs.Default()
	m := Model{registry: reg}
	for _, p := range reg.All() {
		for _, pat := range p.DestructivePatterns {
			m.rows = append(m.rows, row{
				packID:      p.ID,
				patternName: pat.Name,
				severity:    pat.Severity.String(),
				reason:      pat.Reason,
			})
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}
		case "esc", "b":
			if m.OnBack != nil {
				return m, m.OnBack()
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	th := &theme.Current
	title := lipgloss.NewStyle().Bold(true).Foreground(th.Mauve).Render("Patterns")

	cols := []components.Column{
		{Header: "PACK", MinWidth: 10},
		{Header: "PATTERN", MinWidth: 12},
		{Header: "SEVERITY", MinWidth: 8},
		{Header: "REASON", MaxWidth: 50},
	}
	var tableRows [][]string
	for _, r := range m.rows {
		tableRows = append(tableRows, []string{r.packID, r.patternName, r.severity, r.reason})
	}
	table := components.NewTable(cols).WithRows(tableRows).WithSelection(m.selected)

	summary := fmt.Sprintf("%d packs, %d destructive patterns", len(m.registry.All()), len(m.rows))
	footer := lipgloss.NewStyle().Foreground(th.Subtext).Render(summary + "  esc/b back")

	return title + "\n\n" + table.Render() + "\n\n" + footer
}

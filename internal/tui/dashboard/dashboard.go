// Package dashboard implements the TUI's landing view: a summary of recent
// verdicts, the count of pending exceptions awaiting approval, and the
// loaded pack count, with navigation into the patterns and history views.
package dashboard

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dcghistory "github.com/Dicklesworthstone/dcg/internal/history"
	"github.com/Dicklesworthstone/dcg/internal/packs"
	"github.com/Dicklesworthstone/dcg/internal/pending"
	"github.com/Dicklesworthstone/dcg/internal/tui/components"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

const recentWindow = 50

// dashboardRow is one active pending exception shown in the dashboard's list.
type dashboardRow struct {
	shortCode string
	command   string
	reason    string
}

// Model is the dashboard's Bubble Tea model.
type Model struct {
	projectPath string

	width, height int
	ready         bool

	pendingCount   int
	recentVerdicts map[string]int
	packCount      int
	rows           []dashboardRow
	selectedIdx    int
	lastErr        error

	OnPatterns      func() tea.Cmd
	OnHistory       func() tea.Cmd
	OnSelectPending func(shortCode string) tea.Cmd
}

// New constructs a dashboard scoped to projectPath, used to locate the
// history database (projectPath/.dcg/history.db) and select its entries.
// The pending-exceptions store is read from pending.DefaultPath().
func New(projectPath string) Model {
	return Model{
		projectPath:    projectPath,
		recentVerdicts: make(map[string]int),
		packCount:      len(packs.Default().All()),
	}
}

type refreshMsg struct{}

type dataMsg struct {
	pendingCount   int
	recentVerdicts map[string]int
	rows           []dashboardRow
	err            error
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return loadDashboardData(m.projectPath)
}

func loadDashboardData(projectPath string) tea.Cmd {
	return func() tea.Msg {
		msg := dataMsg{recentVerdicts: make(map[string]int)}

		store := &pending.Store{Path: pending.DefaultPath()}
		records, _, err := store.LoadActive(time.Now().UTC())
		if err != nil {
			msg.err = err
		} else {
			msg.pendingCount = len(records)
			for _, r := range records {
				msg.rows = append(msg.rows, dashboardRow{
					shortCode: r.ShortCode,
					command:   r.CommandRedacted,
					reason:    r.Reason,
				})
			}
		}

		if db, err := dcghistory.Open(filepath.Join(projectPath, ".dcg", "history.db")); err == nil {
			defer db.Close()
			if entries, err := db.ListRecent(projectPath, recentWindow); err == nil {
				for _, e := range entries {
					msg.recentVerdicts[e.Verdict]++
				}
			}
		}

		return msg
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		return m, loadDashboardData(m.projectPath)

	case dataMsg:
		m.ready = true
		m.pendingCount = msg.pendingCount
		m.recentVerdicts = msg.recentVerdicts
		m.rows = msg.rows
		m.lastErr = msg.err
		if m.selectedIdx >= len(m.rows) {
			m.selectedIdx = max(0, len(m.rows)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "down", "j":
			if m.selectedIdx < len(m.rows)-1 {
				m.selectedIdx++
			}
		case "enter":
			if m.OnSelectPending != nil && m.selectedIdx < len(m.rows) {
				return m, m.OnSelectPending(m.rows[m.selectedIdx].shortCode)
			}
		case "m":
			if m.OnPatterns != nil {
				return m, m.OnPatterns()
			}
		case "H":
			if m.OnHistory != nil {
				return m, m.OnHistory()
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	th := &theme.Current

	title := lipgloss.NewStyle().Bold(true).Foreground(th.Mauve).Render("dcg")
	subtitle := lipgloss.NewStyle().Foreground(th.Subtext).Render(fmt.Sprintf("%d packs loaded", m.packCount))

	summary := lipgloss.NewStyle().Bold(true).Foreground(th.Blue).Render("Recent verdicts")
	summary += "\n" + m.renderVerdictSummary()

	pendingHeader := lipgloss.NewStyle().Bold(true).Foreground(th.Yellow).
		Render(fmt.Sprintf("Pending exceptions (%d)", m.pendingCount))

	cols := []components.Column{
		{Header: "CODE", Width: 6},
		{Header: "COMMAND", MaxWidth: 50},
		{Header: "REASON", MaxWidth: 40},
	}
	var tableRows [][]string
	for _, r := range m.rows {
		tableRows = append(tableRows, []string{r.shortCode, r.command, r.reason})
	}
	table := components.NewTable(cols).WithRows(tableRows).WithSelection(m.selectedIdx)

	footer := lipgloss.NewStyle().Foreground(th.Subtext).
		Render("enter view  m patterns  H history  q quit")

	body := title + "  " + subtitle + "\n\n" + summary + "\n\n" + pendingHeader + "\n" + table.Render() + "\n\n" + footer
	if m.lastErr != nil {
		body += "\n" + lipgloss.NewStyle().Foreground(th.Red).Render("error: "+m.lastErr.Error())
	}
	return body
}

func (m Model) renderVerdictSummary() string {
	th := &theme.Current
	if len(m.recentVerdicts) == 0 {
		return lipgloss.NewStyle().Foreground(th.Subtext).Render("no recent activity")
	}
	verdicts := make([]string, 0, len(m.recentVerdicts))
	for v := range m.recentVerdicts {
		verdicts = append(verdicts, v)
	}
	sort.Strings(verdicts)
	out := ""
	for i, v := range verdicts {
		if i > 0 {
			out += "  "
		}
		color := th.StatusColor(v)
		out += lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%s %d", v, m.recentVerdicts[v]))
	}
	return out
}

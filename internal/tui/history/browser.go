// Package history implements the Bubble Tea browser over dcg's command
// history database: paginated, searchable, and filterable by verdict (t
// cycles deny, warn, allow). The loader also filters by pack, but no key
// sets a pack filter; s only clears one.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dcghistory "github.com/Dicklesworthstone/dcg/internal/history"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

const pageSize = 20

// Filters narrows the rows loadHistoryData returns.
type Filters struct {
	VerdictFilter string
	PackFilter    string
}

// HistoryRow is one row in the browser's table, derived from a history.Entry.
type HistoryRow struct {
	ID          string
	Command     string
	Verdict     string
	PackID      string
	PatternName string
	Actor       string
	CreatedAt   time.Time
	Entry       *dcghistory.Entry
}

// BrowserKeyMap names the browser's key bindings. Update matches keys
// directly rather than through this map, and no key handles Export.
type BrowserKeyMap struct {
	Search       key.Binding
	ClearSearch  key.Binding
	NextPage     key.Binding
	PrevPage     key.Binding
	Select       key.Binding
	Back         key.Binding
	Quit         key.Binding
	Up           key.Binding
	Down         key.Binding
	FilterTier   key.Binding
	FilterStatus key.Binding
	Export       key.Binding
}

// DefaultBrowserKeyMap returns the browser's standard bindings, vim-style
// navigation included.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Search:       key.NewBinding(key.WithKeys("/")),
		ClearSearch:  key.NewBinding(key.WithKeys("esc")),
		NextPage:     key.NewBinding(key.WithKeys("right", "l")),
		PrevPage:     key.NewBinding(key.WithKeys("left", "h")),
		Select:       key.NewBinding(key.WithKeys("enter")),
		Back:         key.NewBinding(key.WithKeys("esc")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
		FilterTier:   key.NewBinding(key.WithKeys("t")),
		FilterStatus: key.NewBinding(key.WithKeys("s")),
		Export:       key.NewBinding(key.WithKeys("e")),
	}
}

// refreshMsg triggers a periodic reload of the current page.
type refreshMsg struct{}

// dataMsg carries the result of a loadHistoryData call back into Update.
type dataMsg struct {
	rows        []HistoryRow
	totalCount  int
	err         error
	refreshedAt time.Time
}

// Model is the Bubble Tea model for the history browser.
type Model struct {
	projectPath string
	keys        BrowserKeyMap

	width, height int
	ready         bool

	rows       []HistoryRow
	totalCount int
	page       int
	pageCount  int
	selectedIdx int

	searching   bool
	searchQuery string
	searchInput textinput.Model

	filters Filters
	lastErr error
	lastLoad time.Time

	// OnSelect is called with a history entry's ID when the user presses
	// enter on a row. OnBack is called when the user backs out of search
	// with nothing left to clear.
	OnSelect func(id string)
	OnBack   func()
}

// New constructs a browser model rooted at projectPath. An empty
// projectPath uses the current working directory.
func New(projectPath string) Model {
	if projectPath == "" {
		if wd, err := os.Getwd(); err == nil {
			projectPath = wd
		}
	}

	ti := textinput.New()
	ti.Placeholder = "search commands..."
	ti.CharLimit = 256

	return Model{
		projectPath: projectPath,
		keys:        DefaultBrowserKeyMap(),
		searchInput: ti,
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return loadDataCmd(m.projectPath, m.searchQuery, m.filters, m.page)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case refreshMsg:
		return m, tea.Batch(loadDataCmd(m.projectPath, m.searchQuery, m.filters, m.page), tickCmd())

	case dataMsg:
		m.rows = msg.rows
		m.totalCount = msg.totalCount
		m.lastErr = msg.err
		m.lastLoad = msg.refreshedAt
		m.pageCount = (m.totalCount + pageSize - 1) / pageSize
		if m.pageCount < 1 {
			m.pageCount = 1
		}
		if m.selectedIdx >= len(m.rows) {
			m.selectedIdx = 0
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEnter:
			m.searching = false
			m.searchQuery = m.searchInput.Value()
			m.page = 0
			return m, loadDataCmd(m.projectPath, m.searchQuery, m.filters, m.page)
		case tea.KeyEsc:
			m.searching = false
			m.searchInput.SetValue(m.searchQuery)
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyUp:
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, nil
	case tea.KeyDown:
		if m.selectedIdx < len(m.rows)-1 {
			m.selectedIdx++
		}
		return m, nil
	case tea.KeyRight:
		if m.page < m.pageCount-1 {
			m.page++
			m.selectedIdx = 0
			return m, loadDataCmd(m.projectPath, m.searchQuery, m.filters, m.page)
		}
		return m, nil
	case tea.KeyLeft:
		if m.page > 0 {
			m.page--
			m.selectedIdx = 0
			return m, loadDataCmd(m.projectPath, m.searchQuery, m.filters, m.page)
		}
		return m, nil
	case tea.KeyEnter:
		if len(m.rows) == 0 {
			return m, nil
		}
		if m.OnSelect != nil {
			m.OnSelect(m.rows[m.selectedIdx].ID)
		}
		return m, nil
	case tea.KeyEsc:
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.searchInput.SetValue("")
			m.page = 0
			return m, loadDataCmd(m.projectPath, m.searchQuery, m.filters, m.page)
		}
		if m.OnBack != nil {
			m.OnBack()
		}
		return m, nil
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
			return m, nil
		case "j":
			if m.selectedIdx < len(m.rows)-1 {
				m.selectedIdx++
			}
			return m, nil
		case "l":
			if m.page < m.pageCount-1 {
				m.page++
				m.selectedIdx = 0
				return m, loadDataCmd(m.projectPath, m.searchQuery, m.filters, m.page)
			}
			return m, nil
		case "h":
			if m.page > 0 {
				m.page--
				m.selectedIdx = 0
				return m, loadDataCmd(m.projectPath, m.searchQuery, m.filters, m.page)
			}
			return m, nil
		case "/":
			m.searching = true
			return m, textinput.Blink
		case "t":
			m.filters.VerdictFilter = nextVerdictFilter(m.filters.VerdictFilter)
			m.page = 0
			return m, loadDataCmd(m.projectPath, m.searchQuery, m.filters, m.page)
		case "s":
			m.filters.PackFilter = ""
			m.page = 0
			return m, loadDataCmd(m.projectPath, m.searchQuery, m.filters, m.page)
		}
	}

	return m, nil
}

func nextVerdictFilter(current string) string {
	switch current {
	case "":
		return "deny"
	case "deny":
		return "warn"
	case "warn":
		return "allow"
	default:
		return ""
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSearchBar())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Current.Mauve).Render("History Browser")
	page := fmt.Sprintf("%d/%d", m.page+1, m.pageCount)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", page)
}

func (m Model) renderSearchBar() string {
	if m.searching {
		return "search: " + m.searchInput.View()
	}
	if m.searchQuery != "" {
		return fmt.Sprintf("search: %s (/ to edit, esc to clear)", m.searchQuery)
	}
	return "/ to search"
}

func (m Model) renderTable() string {
	if len(m.rows) == 0 {
		if m.searchQuery != "" {
			return "No results for search query."
		}
		return "No request history recorded yet."
	}

	var b strings.Builder
	for i, r := range m.rows {
		cursor := "  "
		if i == m.selectedIdx {
			cursor = "> "
		}
		cmd := r.Command
		maxCmdLen := max(m.width-40, 10)
		if len(cmd) > maxCmdLen {
			cmd = cmd[:maxCmdLen-3] + "..."
		}
		b.WriteString(fmt.Sprintf("%s%s %s %-6s %-10s %s\n",
			cursor, verdictIcon(r.Verdict), shortID(r.ID), verdictShort(r.Verdict), formatTimeAgo(r.CreatedAt), cmd))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	var b strings.Builder
	b.WriteString("/ search  t verdict  s pack  enter select  esc back  q quit")
	if m.totalCount > 0 {
		b.WriteString(fmt.Sprintf("  (%d total)", m.totalCount))
	}
	if m.lastErr != nil {
		b.WriteString("  Error: " + m.lastErr.Error())
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func verdictIcon(verdict string) string {
	switch verdict {
	case "allow":
		return "✓"
	case "deny":
		return "✗"
	case "warn":
		return "⚠"
	default:
		return "?"
	}
}

func verdictShort(verdict string) string {
	switch verdict {
	case "allow":
		return "ALLOW"
	case "deny":
		return "DENY"
	case "warn":
		return "WARN"
	default:
		return verdict
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// historyDBPath mirrors the project-relative resolution the CLI layer uses
// for dcg's own history database.
func historyDBPath(projectPath string) string {
	return filepath.Join(projectPath, ".dcg", "history.db")
}

// loadHistoryData opens the project's history database, applies search and
// filters in-memory, and slices out one page of results.
func loadHistoryData(projectPath, query string, filters Filters, page int) ([]HistoryRow, int, error) {
	db, err := dcghistory.Open(historyDBPath(projectPath))
	if err != nil {
		return nil, 0, fmt.Errorf("opening history database: %w", err)
	}
	defer db.Close()

	entries, err := db.ListRecent("", 10000)
	if err != nil {
		return nil, 0, fmt.Errorf("listing history: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	matched := make([]HistoryRow, 0, len(entries))
	for _, e := range entries {
		if query != "" && !strings.Contains(strings.ToLower(e.Command), query) {
			continue
		}
		if filters.VerdictFilter != "" && e.Verdict != filters.VerdictFilter {
			continue
		}
		if filters.PackFilter != "" && e.PackID != filters.PackFilter {
			continue
		}
		matched = append(matched, HistoryRow{
			ID:          e.ID,
			Command:     e.Command,
			Verdict:     e.Verdict,
			PackID:      e.PackID,
			PatternName: e.PatternName,
			Actor:       e.Actor,
			CreatedAt:   e.CreatedAt,
			Entry:       e,
		})
	}

	total := len(matched)
	start := page * pageSize
	if start > total {
		start = total
	}
	end := min(start+pageSize, total)

	return matched[start:end], total, nil
}

// loadDataCmd wraps loadHistoryData as a tea.Cmd.
func loadDataCmd(projectPath, query string, filters Filters, page int) tea.Cmd {
	return func() tea.Msg {
		rows, total, err := loadHistoryData(projectPath, query, filters, page)
		return dataMsg{rows: rows, totalCount: total, err: err, refreshedAt: time.Now()}
	}
}

// tickCmd schedules the next periodic refresh.
func tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// Package tui implements the Bubble Tea terminal UI for dcg: a dashboard of
// recent verdicts and pending exceptions, a pattern browser, a history
// browser, and a detail view for approving or dismissing one pending
// exception.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/dcg/internal/pending"
	"github.com/Dicklesworthstone/dcg/internal/tui/dashboard"
	"github.com/Dicklesworthstone/dcg/internal/tui/history"
	"github.com/Dicklesworthstone/dcg/internal/tui/patterns"
	"github.com/Dicklesworthstone/dcg/internal/tui/request"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

// View identifies which screen the top-level model is showing.
type View int

const (
	ViewDashboard View = iota
	ViewPatterns
	ViewHistory
	ViewRequestDetail
)

// Options configures a TUI run.
type Options struct {
	ProjectPath     string
	Theme           string
	DisableMouse    bool
	RefreshInterval int
	SessionID       string
	SessionKey      string
}

// DefaultOptions returns the options used when none are supplied explicitly.
func DefaultOptions() Options {
	return Options{
		RefreshInterval: 5,
		DisableMouse:    false,
		Theme:           "",
	}
}

// navigateMsg requests a view transition, optionally carrying the short
// code of a pending exception to show on the detail view.
type navigateMsg struct {
	view      View
	requestID string
}

// placeholderModel is a minimal tea.Model; the top-level View uses its text
// as the fallback for a view value it does not handle.
type placeholderModel struct{}

func (placeholderModel) Init() tea.Cmd { return nil }

func (m placeholderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (placeholderModel) View() string { return "dcg - no data loaded yet" }

// pendingApprover implements request.Approver over the on-disk pending
// exceptions store. Reject has no persisted effect: a rejected exception is
// simply left alone to expire on its own.
type pendingApprover struct {
	store *pending.Store
}

func (a pendingApprover) Approve(shortCode string) error {
	records, _, err := a.store.LookupByCode(shortCode, time.Now().UTC())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return a.store.MarkConsumed(records[0].FullHash, time.Now().UTC())
}

func (a pendingApprover) Reject(shortCode string) error {
	return nil
}

// Model is the top-level TUI model, dispatching to one of several sub-views.
type Model struct {
	options Options
	view    View

	width, height int

	dashboard *dashboard.Model
	patterns  patterns.Model
	history   history.Model
	detail    *request.DetailModel

	approver pendingApprover
}

// New constructs a Model using DefaultOptions and the current directory.
func New() Model {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions constructs a Model configured by opts.
func NewWithOptions(opts Options) Model {
	if opts.RefreshInterval == 0 {
		opts.RefreshInterval = DefaultOptions().RefreshInterval
	}
	if opts.Theme != "" {
		theme.SetTheme(theme.FlavorName(opts.Theme))
	}

	d := dashboard.New(opts.ProjectPath)
	m := Model{
		options:   opts,
		view:      ViewDashboard,
		dashboard: &d,
		patterns:  patterns.New(),
		history:   history.New(opts.ProjectPath),
		approver:  pendingApprover{store: &pending.Store{Path: pending.DefaultPath()}},
	}
	m.setupDashboardCallbacks()
	m.setupHistoryCallbacks()
	m.setupPatternsCallbacks()
	return m
}

func (m *Model) setupDashboardCallbacks() {
	if m.dashboard == nil {
		return
	}
	m.dashboard.OnPatterns = func() tea.Cmd {
		return func() tea.Msg { return navigateMsg{view: ViewPatterns} }
	}
	m.dashboard.OnHistory = func() tea.Cmd {
		return func() tea.Msg { return navigateMsg{view: ViewHistory} }
	}
	m.dashboard.OnSelectPending = func(shortCode string) tea.Cmd {
		return func() tea.Msg { return navigateMsg{view: ViewRequestDetail, requestID: shortCode} }
	}
}

func (m *Model) setupHistoryCallbacks() {
	m.history.OnBack = func() {}
	m.history.OnSelect = func(id string) {}
}

func (m *Model) setupPatternsCallbacks() {
	m.patterns.OnBack = func() tea.Cmd {
		return func() tea.Msg { return navigateMsg{view: ViewDashboard} }
	}
}

func (m *Model) setupDetailCallbacks() {
	if m.detail == nil {
		return
	}
	m.detail.OnBack = func() tea.Cmd {
		return func() tea.Msg { return navigateMsg{view: ViewDashboard} }
	}
	m.detail.OnApprove = func() tea.Cmd {
		return func() tea.Msg { return navigateMsg{view: ViewDashboard} }
	}
	m.detail.OnReject = func() tea.Cmd {
		return func() tea.Msg { return navigateMsg{view: ViewDashboard} }
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	switch m.view {
	case ViewRequestDetail:
		if m.detail == nil {
			return nil
		}
		return m.detail.Init()
	case ViewHistory:
		return m.history.Init()
	case ViewPatterns:
		return m.patterns.Init()
	default:
		if m.dashboard == nil {
			return nil
		}
		return m.dashboard.Init()
	}
}

func (m Model) loadPendingItem(shortCode string) *request.PendingItem {
	if shortCode == "" {
		return nil
	}
	records, _, err := m.approver.store.LookupByCode(shortCode, time.Now().UTC())
	if err != nil || len(records) == 0 {
		return nil
	}
	r := records[0]
	return &request.PendingItem{
		ShortCode: r.ShortCode,
		FullHash:  r.FullHash,
		Command:   r.CommandRedacted,
		Reason:    r.Reason,
		CWD:       r.CWD,
		SingleUse: r.SingleUse,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}

// approveRequest approves the pending exception identified by shortCode and
// returns a command that navigates back to the dashboard regardless of
// whether the lookup succeeded.
func (m *Model) approveRequest(shortCode, reason string) tea.Cmd {
	_ = m.approver.Approve(shortCode)
	return func() tea.Msg { return navigateMsg{view: ViewDashboard} }
}

// rejectRequest dismisses the pending exception identified by shortCode.
// Rejection has no persisted effect; the record is simply left to expire.
func (m *Model) rejectRequest(shortCode, reason string) tea.Cmd {
	_ = m.approver.Reject(shortCode)
	return func() tea.Msg { return navigateMsg{view: ViewDashboard} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case navigateMsg:
		return m.handleNavigation(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.view == ViewDashboard {
				return m, tea.Quit
			}
		}

		switch m.view {
		case ViewDashboard:
			if msg.Type == tea.KeyRunes {
				switch string(msg.Runes) {
				case "m":
					return m.handleNavigation(navigateMsg{view: ViewPatterns})
				case "H":
					return m.handleNavigation(navigateMsg{view: ViewHistory})
				}
			}
		case ViewPatterns, ViewHistory, ViewRequestDetail:
			if msg.Type == tea.KeyEsc {
				return m.handleNavigation(navigateMsg{view: ViewDashboard})
			}
			if msg.Type == tea.KeyRunes && string(msg.Runes) == "b" {
				return m.handleNavigation(navigateMsg{view: ViewDashboard})
			}
		}
	}

	return m.updateCurrentView(msg)
}

func (m Model) handleNavigation(msg navigateMsg) (tea.Model, tea.Cmd) {
	switch msg.view {
	case ViewRequestDetail:
		item := m.loadPendingItem(msg.requestID)
		if item == nil {
			m.view = ViewDashboard
			return m, nil
		}
		m.detail = request.NewDetailModel(item, m.approver)
		m.setupDetailCallbacks()
		m.view = ViewRequestDetail
		return m, m.detail.Init()
	default:
		m.view = msg.view
		return m, nil
	}
}

func (m Model) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewDashboard:
		if m.dashboard == nil {
			return m, nil
		}
		updated, cmd := m.dashboard.Update(msg)
		d := updated.(dashboard.Model)
		m.dashboard = &d
		return m, cmd
	case ViewPatterns:
		updated, cmd := m.patterns.Update(msg)
		m.patterns = updated.(patterns.Model)
		return m, cmd
	case ViewHistory:
		updated, cmd := m.history.Update(msg)
		m.history = updated.(history.Model)
		return m, cmd
	case ViewRequestDetail:
		if m.detail == nil {
			return m, nil
		}
		updated, cmd := m.detail.Update(msg)
		m.detail = updated.(*request.DetailModel)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.view {
	case ViewDashboard:
		if m.dashboard == nil {
			return "Loading..."
		}
		return m.dashboard.View()
	case ViewPatterns:
		return m.patterns.View()
	case ViewHistory:
		return m.history.View()
	case ViewRequestDetail:
		if m.detail == nil {
			return "Loading..."
		}
		return m.detail.View()
	}
	return placeholderModel{}.View()
}

// RunWithOptions starts the TUI using the given options, blocking until the
// user quits.
func RunWithOptions(opts Options) error {
	teaOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if !opts.DisableMouse {
		teaOpts = append(teaOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(NewWithOptions(opts), teaOpts...)
	_, err := p.Run()
	return err
}

// Run starts the TUI with default options.
func Run() error {
	return RunWithOptions(DefaultOptions())
}

// Package request implements the TUI's detail view over one pending
// exception: the command it was recorded for, why it was denied, and
// actions to approve or dismiss it.
package request

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/dcg/internal/tui/components"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

// PendingItem is the subset of a pending.Record the detail view renders.
type PendingItem struct {
	ShortCode string
	FullHash  string
	Command   string
	Reason    string
	CWD       string
	SingleUse bool
	CreatedAt string
	ExpiresAt string
}

// Approver performs the side effects of acting on a pending exception.
// Reject has no on-disk counterpart in the pending store — a rejected
// exception is simply left to expire — so implementations may treat it as
// a no-op local dismissal.
type Approver interface {
	Approve(shortCode string) error
	Reject(shortCode string) error
}

// DetailModel shows one pending exception and lets the operator approve or
// dismiss it. Update calls the Approver itself; OnBack/OnApprove/OnReject,
// wired by the parent TUI model, only supply the navigation command that
// follows each key.
type DetailModel struct {
	Item     *PendingItem
	approver Approver

	OnBack    func() tea.Cmd
	OnApprove func() tea.Cmd
	OnReject  func() tea.Cmd

	width, height int
}

// NewDetailModel constructs a detail view for item. approver may be nil,
// in which case Approve/Reject key presses are no-ops.
func NewDetailModel(item *PendingItem, approver Approver) *DetailModel {
	return &DetailModel{Item: item, approver: approver}
}

// Init implements tea.Model.
func (m *DetailModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			if m.OnBack != nil {
				return m, m.OnBack()
			}
			return m, nil
		case tea.KeyRunes:
			switch string(msg.Runes) {
			case "b":
				if m.OnBack != nil {
					return m, m.OnBack()
				}
			case "a":
				if m.approver != nil && m.Item != nil {
					_ = m.approver.Approve(m.Item.ShortCode)
				}
				if m.OnApprove != nil {
					return m, m.OnApprove()
				}
			case "r":
				if m.approver != nil && m.Item != nil {
					_ = m.approver.Reject(m.Item.ShortCode)
				}
				if m.OnReject != nil {
					return m, m.OnReject()
				}
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *DetailModel) View() string {
	if m.Item == nil {
		return "Loading..."
	}
	th := &theme.Current

	title := lipgloss.NewStyle().Bold(true).Foreground(th.Mauve).Render("Pending Exception " + m.Item.ShortCode)
	cmd := components.NewCommandBox(m.Item.Command).RenderFull()

	var lines []string
	lines = append(lines, title, "", cmd, "")
	if m.Item.Reason != "" {
		lines = append(lines, "reason: "+m.Item.Reason)
	}
	lines = append(lines, "cwd: "+m.Item.CWD)
	lines = append(lines, fmt.Sprintf("single-use: %v", m.Item.SingleUse))
	lines = append(lines, "created: "+m.Item.CreatedAt)
	lines = append(lines, "expires: "+m.Item.ExpiresAt)
	lines = append(lines, "", "a approve  r reject  esc/b back")

	content := ""
	for i, l := range lines {
		if i > 0 {
			content += "\n"
		}
		content += l
	}
	return content
}

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

// StatusBadge renders a colored pill for a status string. pending, approved,
// rejected, executed, failed, timeout, cancelled and escalated get their own
// color and icon; any other status uses the text color and a "?" icon.
type StatusBadge struct {
	Status   string
	ShowIcon bool
	Compact  bool
}

// NewStatusBadge creates a status badge.
func NewStatusBadge(status string) *StatusBadge {
	return &StatusBadge{
		Status:   status,
		ShowIcon: true,
	}
}

// AsCompact renders the badge without padding or border.
func (b *StatusBadge) AsCompact() *StatusBadge {
	b.Compact = true
	return b
}

// WithIcon toggles the leading status icon.
func (b *StatusBadge) WithIcon(show bool) *StatusBadge {
	b.ShowIcon = show
	return b
}

// Render renders the badge.
func (b *StatusBadge) Render() string {
	t := &theme.Current
	color := t.StatusColor(b.Status)

	label := strings.ToUpper(b.Status)
	if b.ShowIcon {
		label = theme.StatusIcon(b.Status) + " " + label
	}

	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	if !b.Compact {
		style = style.Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(color)
	}

	return style.Render(label)
}

// RenderStatusBadge renders a status badge in one call.
func RenderStatusBadge(status string) string {
	return NewStatusBadge(status).Render()
}

// RenderStatusBadgeCompact renders a compact status badge in one call.
func RenderStatusBadgeCompact(status string) string {
	return NewStatusBadge(status).AsCompact().Render()
}

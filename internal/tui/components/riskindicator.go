package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

// RiskIndicator renders a command's classified risk tier.
type RiskIndicator struct {
	Tier      string
	ShowEmoji bool
	ShowLabel bool
	Compact   bool
}

// NewRiskIndicator creates a risk indicator for a tier.
func NewRiskIndicator(tier string) *RiskIndicator {
	return &RiskIndicator{
		Tier:      tier,
		ShowEmoji: true,
		ShowLabel: true,
	}
}

// AsCompact renders the indicator without padding.
func (r *RiskIndicator) AsCompact() *RiskIndicator {
	r.Compact = true
	return r
}

// WithEmoji toggles the leading tier emoji.
func (r *RiskIndicator) WithEmoji(show bool) *RiskIndicator {
	r.ShowEmoji = show
	return r
}

// WithLabel toggles the tier name label.
func (r *RiskIndicator) WithLabel(show bool) *RiskIndicator {
	r.ShowLabel = show
	return r
}

// Render renders the indicator.
func (r *RiskIndicator) Render() string {
	t := &theme.Current
	color := t.TierColor(r.Tier)

	var parts []string
	if r.ShowEmoji {
		parts = append(parts, theme.TierEmoji(r.Tier))
	}
	if r.ShowLabel {
		parts = append(parts, strings.ToUpper(r.Tier))
	}
	if len(parts) == 0 {
		parts = append(parts, r.Tier)
	}

	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	if !r.Compact {
		style = style.Padding(0, 1)
	}

	return style.Render(strings.Join(parts, " "))
}

// RenderRiskIndicator renders a risk indicator in one call.
func RenderRiskIndicator(tier string) string {
	return NewRiskIndicator(tier).Render()
}

// RenderRiskIndicatorCompact renders a compact risk indicator in one call.
func RenderRiskIndicatorCompact(tier string) string {
	return NewRiskIndicator(tier).AsCompact().Render()
}

// TierDescription explains what dcg does with a command classified at tier.
func TierDescription(tier string) string {
	switch strings.ToLower(tier) {
	case "critical":
		return "Denied outright; running it requires a 2+ human approved pending exception"
	case "dangerous":
		return "Denied by default; eligible for a single-use 1 approval pending exception"
	case "caution":
		return "Auto-approved with a warning logged to history"
	case "safe":
		return "No approval needed; allowed to run"
	default:
		return "Unknown tier"
	}
}

// MinApprovals returns the approval count associated with tier. Nothing in
// dcg reads it: the pending store keeps no approval count, and a single
// `dcg pending approve` consumes an exception whatever its tier.
func MinApprovals(tier string) int {
	switch strings.ToLower(tier) {
	case "critical":
		return 2
	case "dangerous":
		return 1
	case "caution", "safe":
		return 0
	default:
		return 1
	}
}

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

// AgentStatus describes how recently an agent has issued a command.
type AgentStatus string

const (
	AgentStatusActive AgentStatus = "active"
	AgentStatusIdle   AgentStatus = "idle"
	AgentStatusStale  AgentStatus = "stale"
	AgentStatusEnded  AgentStatus = "ended"
)

// AgentInfo describes one coding agent dcg has seen commands from, derived
// from the actor field recorded on history entries.
type AgentInfo struct {
	Name       string
	Program    string // e.g. "claude-code", "codex", "cursor"
	Model      string
	Status     AgentStatus
	LastActive time.Time
}

// AgentCard renders a summary of one agent's activity.
type AgentCard struct {
	Agent    AgentInfo
	Width    int
	Compact  bool
	Selected bool
}

// NewAgentCard creates an agent card.
func NewAgentCard(agent AgentInfo) *AgentCard {
	return &AgentCard{
		Agent: agent,
		Width: 40,
	}
}

// AsCompact renders a single-line card.
func (c *AgentCard) AsCompact() *AgentCard {
	c.Compact = true
	return c
}

// AsSelected highlights the card as the active selection.
func (c *AgentCard) AsSelected(selected bool) *AgentCard {
	c.Selected = selected
	return c
}

// WithWidth sets the card's rendered width.
func (c *AgentCard) WithWidth(width int) *AgentCard {
	c.Width = width
	return c
}

func agentStatusColor(th *theme.Theme, status AgentStatus) lipgloss.Color {
	switch status {
	case AgentStatusActive:
		return th.Green
	case AgentStatusIdle:
		return th.Yellow
	case AgentStatusStale:
		return th.Peach
	case AgentStatusEnded:
		return th.Subtext
	default:
		return th.Text
	}
}

func agentStatusIcon(status AgentStatus) string {
	switch status {
	case AgentStatusActive:
		return "●"
	case AgentStatusIdle:
		return "◐"
	case AgentStatusStale:
		return "◯"
	case AgentStatusEnded:
		return "✕"
	default:
		return "?"
	}
}

// Render renders the card.
func (c *AgentCard) Render() string {
	th := &theme.Current
	color := agentStatusColor(th, c.Agent.Status)

	if c.Compact {
		line := fmt.Sprintf("%s %s (%s)", agentStatusIcon(c.Agent.Status), c.Agent.Name, c.Agent.Program)
		style := lipgloss.NewStyle().Foreground(color)
		if c.Selected {
			style = style.Bold(true)
		}
		return style.Render(line)
	}

	nameStyle := lipgloss.NewStyle().Foreground(th.Text).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(th.Subtext)
	statusStyle := lipgloss.NewStyle().Foreground(color)

	name := nameStyle.Render(c.Agent.Name)
	status := statusStyle.Render(agentStatusIcon(c.Agent.Status) + " " + string(c.Agent.Status))
	meta := metaStyle.Render(fmt.Sprintf("%s / %s", c.Agent.Program, c.Agent.Model))
	lastActive := metaStyle.Render("last active: " + formatTimeAgo(c.Agent.LastActive))

	content := name + "  " + status + "\n" + meta + "\n" + lastActive

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Overlay0).
		Width(c.Width).
		Padding(0, 1)
	if c.Selected {
		boxStyle = boxStyle.BorderForeground(th.Mauve)
	}

	return boxStyle.Render(content)
}

// RenderAgentCard renders an agent card in one call.
func RenderAgentCard(agent AgentInfo) string {
	return NewAgentCard(agent).Render()
}

// RenderAgentCardCompact renders a compact agent card in one call.
func RenderAgentCardCompact(agent AgentInfo) string {
	return NewAgentCard(agent).AsCompact().Render()
}

// formatTimeAgo renders t as a short human-relative duration.
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

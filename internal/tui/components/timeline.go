// Package components provides timeline components for evaluation traces.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/Dicklesworthstone/dcg/internal/evaluator"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

// TimelineEvent represents a single step in an evaluator trace.
type TimelineEvent struct {
	Name    string
	Outcome string // e.g. "pass", "matched", "denied", "allowed"
	Details string
}

// Timeline renders an evaluator pipeline trace.
type Timeline struct {
	Events   []TimelineEvent
	Compact  bool
	Expanded bool
	Current  string // stage name to highlight, usually the last one
}

// NewTimeline creates a new timeline component.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// AddEvent adds a step to the timeline.
func (t *Timeline) AddEvent(name, outcome, details string) *Timeline {
	t.Events = append(t.Events, TimelineEvent{
		Name:    name,
		Outcome: outcome,
		Details: details,
	})
	return t
}

// FromTrace builds a Timeline from an evaluator.Decision's step trace.
func FromTrace(steps []evaluator.Step) *Timeline {
	tl := NewTimeline()
	for _, s := range steps {
		details := ""
		if len(s.Details) > 0 {
			parts := make([]string, 0, len(s.Details))
			for k, v := range s.Details {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			}
			details = strings.Join(parts, " ")
		}
		tl.AddEvent(s.Name, s.Outcome, details)
	}
	if len(steps) > 0 {
		tl.WithCurrent(steps[len(steps)-1].Name)
	}
	return tl
}

// WithCurrent sets the current stage to highlight.
func (t *Timeline) WithCurrent(name string) *Timeline {
	t.Current = name
	return t
}

// AsCompact sets the timeline to compact mode.
func (t *Timeline) AsCompact() *Timeline {
	t.Compact = true
	return t
}

// AsExpanded sets the timeline to expanded mode.
func (t *Timeline) AsExpanded() *Timeline {
	t.Expanded = true
	return t
}

// Render renders the timeline.
func (t *Timeline) Render() string {
	if t.Compact {
		return t.renderCompact()
	}
	if t.Expanded {
		return t.renderExpanded()
	}
	return t.renderNormal()
}

func outcomeColor(th *theme.Theme, outcome string) lipgloss.Color {
	switch strings.ToLower(outcome) {
	case "allowed", "pass", "safe", "matched_safe":
		return th.Green
	case "denied", "matched_deny", "critical":
		return th.Red
	case "warn", "warned", "caution":
		return th.Yellow
	case "skipped", "no_match":
		return th.Subtext
	default:
		return th.Blue
	}
}

// renderCompact renders a single-line dot-and-arrow trace.
func (t *Timeline) renderCompact() string {
	th := &theme.Current

	var parts []string
	for _, e := range t.Events {
		color := outcomeColor(th, e.Outcome)
		if e.Name == t.Current {
			color = th.Mauve
		}
		dot := lipgloss.NewStyle().Foreground(color).Render("●")
		parts = append(parts, dot)
	}

	arrow := lipgloss.NewStyle().Foreground(th.Overlay0).Render(" → ")
	return strings.Join(parts, arrow)
}

// renderNormal renders one line per pipeline step.
func (t *Timeline) renderNormal() string {
	th := &theme.Current

	var lines []string
	for i, e := range t.Events {
		isLast := i == len(t.Events)-1
		isCurrent := e.Name == t.Current

		stageColor := outcomeColor(th, e.Outcome)

		connector := "│"
		node := "●"
		if isLast {
			connector = " "
		}
		if isCurrent {
			node = "◉"
		}

		nodeStyle := lipgloss.NewStyle().Foreground(stageColor).Bold(isCurrent)
		connectorStyle := lipgloss.NewStyle().Foreground(th.Overlay0)

		label := lipgloss.NewStyle().
			Foreground(stageColor).
			Bold(isCurrent).
			Render(e.Name)

		outcomeStr := ""
		if e.Outcome != "" {
			outcomeStr = lipgloss.NewStyle().
				Foreground(th.Subtext).
				Render("  " + e.Outcome)
		}

		line := fmt.Sprintf("%s %s%s", nodeStyle.Render(node), label, outcomeStr)
		lines = append(lines, line)

		if !isLast {
			lines = append(lines, connectorStyle.Render(connector))
		}
	}

	return strings.Join(lines, "\n")
}

// renderExpanded renders the full trace with step details.
func (t *Timeline) renderExpanded() string {
	th := &theme.Current

	var lines []string
	for i, e := range t.Events {
		isLast := i == len(t.Events)-1
		isCurrent := e.Name == t.Current

		stageColor := outcomeColor(th, e.Outcome)

		nodeStyle := lipgloss.NewStyle().Foreground(stageColor).Bold(isCurrent)
		connectorStyle := lipgloss.NewStyle().Foreground(th.Overlay0)

		node := "●"
		if isCurrent {
			node = "◉"
		}

		label := lipgloss.NewStyle().
			Foreground(stageColor).
			Bold(isCurrent).
			Render(e.Name)

		line := fmt.Sprintf("%s %s", nodeStyle.Render(node), label)
		lines = append(lines, line)

		if e.Outcome != "" {
			lines = append(lines, connectorStyle.Render("│  ")+
				lipgloss.NewStyle().Foreground(th.Subtext).Render(e.Outcome))
		}

		if e.Details != "" {
			lines = append(lines, connectorStyle.Render("│  ")+
				lipgloss.NewStyle().Foreground(th.Text).Render(e.Details))
		}

		if !isLast {
			lines = append(lines, connectorStyle.Render("│"))
		}
	}

	return strings.Join(lines, "\n")
}

// RenderTimeline is a convenience function to create and render a timeline.
func RenderTimeline(events []TimelineEvent, current string) string {
	tl := NewTimeline().WithCurrent(current)
	for _, e := range events {
		tl.AddEvent(e.Name, e.Outcome, e.Details)
	}
	return tl.Render()
}

// RenderTimelineCompact is a convenience function for compact timeline.
func RenderTimelineCompact(events []TimelineEvent, current string) string {
	tl := NewTimeline().WithCurrent(current).AsCompact()
	for _, e := range events {
		tl.AddEvent(e.Name, e.Outcome, e.Details)
	}
	return tl.Render()
}

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/Dicklesworthstone/dcg/internal/tui/theme"
)

// SpinnerStyle selects one of bubbles' built-in spinner frame sets.
type SpinnerStyle int

const (
	SpinnerStyleDots SpinnerStyle = iota
	SpinnerStyleLine
	SpinnerStyleMiniDot
	SpinnerStyleJump
	SpinnerStylePulse
	SpinnerStylePoints
	SpinnerStyleGlobe
	SpinnerStyleMoon
	SpinnerStyleMonkey
	SpinnerStyleMeter
	SpinnerStyleHamburger
)

func spinnerFrames(style SpinnerStyle) spinner.Spinner {
	switch style {
	case SpinnerStyleLine:
		return spinner.Line
	case SpinnerStyleMiniDot:
		return spinner.MiniDot
	case SpinnerStyleJump:
		return spinner.Jump
	case SpinnerStylePulse:
		return spinner.Pulse
	case SpinnerStylePoints:
		return spinner.Points
	case SpinnerStyleGlobe:
		return spinner.Globe
	case SpinnerStyleMoon:
		return spinner.Moon
	case SpinnerStyleMonkey:
		return spinner.Monkey
	case SpinnerStyleMeter:
		return spinner.Meter
	case SpinnerStyleHamburger:
		return spinner.Hamburger
	default:
		return spinner.Dot
	}
}

// NewSpinner constructs a spinner.Model using the given frame style, themed
// with dcg's active color scheme.
func NewSpinner(style SpinnerStyle) spinner.Model {
	s := spinner.New()
	s.Spinner = spinnerFrames(style)
	s.Style = lipgloss.NewStyle().Foreground(theme.Current.Mauve)
	return s
}

// DefaultSpinner returns the standard dot spinner.
func DefaultSpinner() spinner.Model {
	return NewSpinner(SpinnerStyleDots)
}

// LoadingSpinner returns a spinner for generic loading states.
func LoadingSpinner() spinner.Model {
	return NewSpinner(SpinnerStyleDots)
}

// ProcessingSpinner returns a spinner for an in-flight evaluation.
func ProcessingSpinner() spinner.Model {
	return NewSpinner(SpinnerStyleMiniDot)
}

// WaitingSpinner returns a spinner for a pending exception awaiting approval.
func WaitingSpinner() spinner.Model {
	return NewSpinner(SpinnerStylePulse)
}

// SpinnerWithLabel renders a spinner's current frame next to a label.
func SpinnerWithLabel(s spinner.Model, label string) string {
	return s.View() + " " + label
}

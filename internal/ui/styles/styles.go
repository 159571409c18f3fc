// Package styles defines the visual styling for the application.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// Color definitions for the dashboard theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("205") // Pink
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Series colors
	Requests = lipgloss.Color("39")  // Blue
	Hits     = lipgloss.Color("42")  // Green
	Misses   = lipgloss.Color("208") // Orange

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	// Background colors
	BgDark  = lipgloss.Color("235")
	BgLight = lipgloss.Color("237")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// AgentPalette colors agents in charts, in rank order.
var AgentPalette = []lipgloss.Color{
	lipgloss.Color("205"),
	lipgloss.Color("39"),
	lipgloss.Color("42"),
	lipgloss.Color("220"),
	lipgloss.Color("63"),
	lipgloss.Color("208"),
	lipgloss.Color("51"),
	lipgloss.Color("141"),
}

// AgentColor returns the palette color for rank i.
func AgentColor(i int) lipgloss.Color {
	return AgentPalette[i%len(AgentPalette)]
}

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 2).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// LabelStyle styles the left column of key/value rows.
var LabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// ValueStyle styles the right column of key/value rows.
var ValueStyle = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Bold(true)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpKeyStyle styles keyboard shortcut keys.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpDescStyle styles help descriptions.
var HelpDescStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// BadgeStyle is the base for the header's mode and range badges.
var BadgeStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("229")).
	Background(Secondary).
	Padding(0, 1).
	MarginRight(1)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// CircuitClosedStyle marks a healthy breaker.
var CircuitClosedStyle = lipgloss.NewStyle().
	Foreground(Success).
	Bold(true)

// CircuitHalfOpenStyle marks a recovering breaker.
var CircuitHalfOpenStyle = lipgloss.NewStyle().
	Foreground(Warning).
	Bold(true)

// CircuitOpenStyle marks a tripped breaker.
var CircuitOpenStyle = lipgloss.NewStyle().
	Foreground(Error).
	Bold(true).
	Italic(true)

// GetCircuitStyle returns the style for a breaker state.
func GetCircuitStyle(state models.CircuitState) lipgloss.Style {
	switch state {
	case models.CircuitClosed:
		return CircuitClosedStyle
	case models.CircuitHalfOpen:
		return CircuitHalfOpenStyle
	case models.CircuitOpen:
		return CircuitOpenStyle
	default:
		return HelpStyle
	}
}

// GetRateStyle colors a percentage where higher is better, such as the
// cache hit rate.
func GetRateStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 80:
		return SuccessTextStyle
	case percent >= 50:
		return WarningTextStyle
	default:
		return ErrorTextStyle
	}
}

// GetDeltaStyle colors signed changes; decreases of a counter usually mean
// the upstream restarted.
func GetDeltaStyle(delta float64) lipgloss.Style {
	switch {
	case delta > 0:
		return SuccessTextStyle
	case delta < 0:
		return ErrorTextStyle
	default:
		return HelpStyle
	}
}

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}

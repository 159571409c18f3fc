package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/styles"
)

// LoadingSpinner is a spinner with a trailing label, shown while snapshots
// are loading.
type LoadingSpinner struct {
	spinner spinner.Model
	label   string
	style   lipgloss.Style
}

// NewSpinner creates a spinner with the given label.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingSpinner{
		spinner: s,
		label:   label,
		style:   lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Init starts the spinner.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its own tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the spinner glyph only.
func (l LoadingSpinner) View() string {
	return l.spinner.View()
}

// ViewWithLabel renders the glyph followed by the label.
func (l LoadingSpinner) ViewWithLabel() string {
	if l.label == "" {
		return l.spinner.View()
	}
	return l.spinner.View() + " " + l.style.Render(l.label)
}

// Label returns the current label.
func (l LoadingSpinner) Label() string {
	return l.label
}

// Tick returns the spinner's tick command.
func (l LoadingSpinner) Tick() tea.Cmd {
	return l.spinner.Tick
}

// RenderSpinnerCentered renders the labelled spinner in the middle of a
// width by height box.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.ViewWithLabel(), width, height)
}

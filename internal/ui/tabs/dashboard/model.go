// Package dashboard provides the overview tab: metric cards for the latest
// snapshot and a status grid for the breaker, rate limits, storage and
// response classes.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/app"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	gauge    components.Gauge
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
	dirty    bool
}

// New creates a new dashboard model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading snapshots..."),
		gauge:    components.NewGauge(),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		dirty:    true,
	}
}

// Init starts the loading spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DataChangedMsg:
		m.dirty = true

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.state.IsInitialLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	if width != m.width {
		m.dirty = true
	}
	m.width = width
	m.height = height
	// DocStyle margins and padding.
	m.viewport.Width = max(width-6, 0)
	m.viewport.Height = max(height-2, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Top, m.keys.Bottom},
	}
}

// Package traffic provides the traffic tab: request, cache and error series
// over the selected time range.
package traffic

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/app"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// keyMap defines the key bindings specific to the traffic tab.
type keyMap struct {
	CycleChart key.Binding
	Up         key.Binding
	Down       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		CycleChart: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "chart type"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the traffic tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
	dirty    bool
}

// New creates a new traffic model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		dirty:    true,
	}
}

// Init initializes the traffic tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the traffic tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DataChangedMsg:
		m.dirty = true

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.CycleChart) {
			return m, m.commands.UpdatePreferences(func(p *models.Preferences) {
				p.TrafficChart = p.TrafficChart.Next()
			})
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// SetSize sets the available size for the traffic tab.
func (m *Model) SetSize(width, height int) {
	if width != m.width || height != m.height {
		m.dirty = true
	}
	m.width = width
	m.height = height
	m.viewport.Width = max(width-6, 0)
	m.viewport.Height = max(height-2, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.CycleChart}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.CycleChart},
		{m.keys.Up, m.keys.Down},
	}
}

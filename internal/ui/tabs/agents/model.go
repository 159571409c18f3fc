// Package agents provides the agents tab: which TTML agents send traffic,
// with renamed accounts folded into their current name.
package agents

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/analytics"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/app"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the agents tab.
type keyMap struct {
	CycleChart key.Binding
	Up         key.Binding
	Down       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		CycleChart: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "bar/pie"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the agents tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	table    table.Model
	keys     keyMap
	agents   []models.AgentCount
	width    int
	height   int
}

// New creates a new agents model.
func New(state *app.State, commands *app.Commands) *Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgLight).
		Bold(true)
	t.SetStyles(s)

	m := &Model{
		state:    state,
		commands: commands,
		table:    t,
		keys:     defaultKeyMap(),
	}
	m.updateTableData()
	return m
}

// Init initializes the agents tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the agents tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DataChangedMsg:
		m.updateTableData()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.CycleChart) {
			return m, m.commands.UpdatePreferences(func(p *models.Preferences) {
				p.AgentsChart = p.AgentsChart.Next()
			})
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateTableData refreshes the rows from the current view. The cursor is
// kept when the row still exists.
func (m *Model) updateTableData() {
	view := m.state.View()
	m.agents = analytics.TopAgents(view, 0)

	total := lo.SumBy(m.agents, func(a models.AgentCount) int64 { return max(a.Requests, 0) })
	rows := lo.Map(m.agents, func(a models.AgentCount, i int) table.Row {
		share := "-"
		if total > 0 {
			share = components.FormatPercent(float64(max(a.Requests, 0)) / float64(total) * 100)
		}
		requests := components.FormatCount(a.Requests)
		if view.ShowDeltas() {
			requests = components.FormatSigned(a.Requests)
		}
		return table.Row{
			components.FormatCount(int64(i + 1)),
			a.Name,
			requests,
			share,
			formerly(a),
		}
	})

	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	if cursor >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func formerly(a models.AgentCount) string {
	return strings.Join(a.FormerNames, ", ")
}

func columns(width int) []table.Column {
	nameWidth := min(max(width-60, 16), 32)
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Agent", Width: nameWidth},
		{Title: "Requests", Width: 12},
		{Title: "Share", Width: 8},
		{Title: "Formerly", Width: 24},
	}
}

// SetSize sets the available size for the agents tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columns(width))
	m.table.SetHeight(max(height/2-4, 3))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.CycleChart, m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.CycleChart},
		{m.keys.Up, m.keys.Down},
	}
}

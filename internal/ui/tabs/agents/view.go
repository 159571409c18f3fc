package agents

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/styles"
)

const (
	// Bars beyond this are only listed in the table.
	maxBars = 10
	// Pie slices; the rest are merged into "Other".
	maxSlices = 7
)

// View renders the agents tab.
func (m *Model) View() string {
	view := m.state.View()
	prefs := m.state.Preferences()

	sections := []string{m.renderTitle(view.ShowDeltas(), view.TimeRange)}
	if len(m.agents) == 0 {
		sections = append(sections,
			styles.HelpStyle.Render("No agent traffic recorded for this range."),
		)
	} else {
		sections = append(sections, m.renderChart(prefs.AgentsChart), m.renderTable())
	}

	return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle(deltas bool, r models.TimeRange) string {
	title := styles.TitleStyle.UnsetMarginBottom().Render("Agents")

	subtitle := fmt.Sprintf("%d agents  •  current totals", len(m.agents))
	if deltas {
		subtitle = fmt.Sprintf("%d agents  •  requests during %s", len(m.agents), strings.ToLower(r.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) contentWidth() int {
	return max(m.width-12, 40)
}

func (m *Model) renderChart(chart models.AgentsChartType) string {
	var body string
	switch chart {
	case models.AgentsChartPie:
		body = m.renderPie()
	default:
		body = m.renderBars()
	}

	title := styles.CardTitleStyle.Render("Requests by agent") + "  " + styles.HelpStyle.Render("[c] "+string(chart))
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (m *Model) renderBars() string {
	top := lo.Slice(m.agents, 0, maxBars)
	bars := lo.Map(top, func(a models.AgentCount, i int) components.Bar {
		return components.Bar{
			Label: truncate(a.DisplayName(), 36),
			Value: float64(a.Requests),
			Color: styles.AgentColor(i),
		}
	})
	return components.RenderBarChart(bars, m.contentWidth(), func(v float64) string {
		return components.FormatCount(int64(v))
	})
}

func (m *Model) renderPie() string {
	segments := pieSegments(m.agents, maxSlices)
	return lipgloss.JoinVertical(lipgloss.Left,
		components.RenderShareBar(segments, m.contentWidth()),
		"",
		components.RenderShareLegend(segments),
	)
}

// pieSegments returns one segment per leading agent and folds the tail into a
// single "Other" segment.
func pieSegments(agents []models.AgentCount, n int) []components.Segment {
	segments := lo.Map(lo.Slice(agents, 0, n), func(a models.AgentCount, i int) components.Segment {
		return components.Segment{Label: a.DisplayName(), Value: float64(a.Requests), Color: styles.AgentColor(i)}
	})
	if len(agents) > n {
		rest := lo.SumBy(agents[n:], func(a models.AgentCount) int64 { return max(a.Requests, 0) })
		segments = append(segments, components.Segment{Label: "Other", Value: float64(rest), Color: styles.Subtle})
	}
	return segments
}

func (m *Model) renderTable() string {
	return styles.CardStyle.Render(m.table.View())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

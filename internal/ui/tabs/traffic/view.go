package traffic

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/analytics"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/styles"
)

// View renders the traffic tab.
func (m *Model) View() string {
	if m.dirty {
		m.viewport.SetContent(m.renderContent())
		m.dirty = false
	}
	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderContent() string {
	view := m.state.View()
	prefs := m.state.Preferences()
	points := analytics.TrafficSeries(view)

	header := m.renderHeader(view, prefs)
	if len(points) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			styles.HelpStyle.Render("No snapshots in this range."),
			styles.HelpStyle.Render("Press t to widen the range or s to record a snapshot."),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.renderChart(points, prefs.TrafficChart, view.ShowDeltas()),
		m.renderSummary(points, view.ShowDeltas()),
	)
}

func (m *Model) renderHeader(view analytics.DashboardView, prefs models.Preferences) string {
	badge := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	title := styles.TitleStyle.UnsetMarginBottom().Render("Traffic")
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		title, "  ",
		badge.Render("[t] "+view.TimeRange.String()), " ",
		badge.Render("[v] "+view.ViewMode.String()), " ",
		badge.Render("[c] "+string(prefs.TrafficChart)),
	)

	subtitle := "Cumulative counters at each snapshot"
	if view.ShowDeltas() {
		subtitle = "Change between consecutive snapshots"
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) chartSize() (int, int) {
	width := max(m.viewport.Width-12, 20)
	// Header, legend, summary and card chrome take about 16 rows.
	height := min(max(m.viewport.Height-16, 5), 20)
	return width, height
}

func (m *Model) renderChart(points []analytics.TrafficPoint, chart models.TrafficChartType, deltas bool) string {
	width, height := m.chartSize()

	requests := lo.Map(points, func(p analytics.TrafficPoint, _ int) float64 { return p.Requests })
	caption := fmt.Sprintf("%s → %s", points[0].Date, points[len(points)-1].Date)

	var body, legend string
	switch chart {
	case models.TrafficChartBar:
		body = components.RenderColumnChart(requests, width, height, styles.Requests)
		legend = components.RenderLegend([]components.LegendItem{{Label: "Requests", Color: styles.Requests}})
	case models.TrafficChartScatter:
		body = components.RenderScatterChart(requests, width, height, styles.Requests)
		legend = components.RenderLegend([]components.LegendItem{{Label: "Requests", Color: styles.Requests}})
	default:
		series := []components.Series{
			{Label: "Requests", Values: requests, Color: asciigraph.Blue, Legend: styles.Requests},
			{Label: "Cache hits", Values: pluck(points, func(p analytics.TrafficPoint) float64 { return p.CacheHits }), Color: asciigraph.Green, Legend: styles.Hits},
			{Label: "Cache misses", Values: pluck(points, func(p analytics.TrafficPoint) float64 { return p.CacheMisses }), Color: asciigraph.DarkOrange, Legend: styles.Misses},
			{Label: "5xx errors", Values: pluck(points, func(p analytics.TrafficPoint) float64 { return p.Errors }), Color: asciigraph.Red, Legend: styles.Error},
		}
		if len(points) < 2 {
			body = styles.HelpStyle.Render("Need two snapshots to draw a line.")
		} else {
			body = components.RenderMultiLineChart(series, width, height, "")
		}
		legend = components.RenderLegend(lo.Map(series, func(s components.Series, _ int) components.LegendItem {
			return components.LegendItem{Label: s.Label, Color: s.Legend}
		}))
	}

	title := "Requests"
	if deltas {
		title = "Requests per interval"
	}
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(title),
		body,
		"",
		legend,
		styles.HelpStyle.Render(caption),
	))
}

func pluck(points []analytics.TrafficPoint, f func(analytics.TrafficPoint) float64) []float64 {
	return lo.Map(points, func(p analytics.TrafficPoint, _ int) float64 { return f(p) })
}

func (m *Model) renderSummary(points []analytics.TrafficPoint, deltas bool) string {
	requests := pluck(points, func(p analytics.TrafficPoint) float64 { return p.Requests })
	errors := pluck(points, func(p analytics.TrafficPoint) float64 { return p.Errors })
	peak := lo.MaxBy(points, func(a, b analytics.TrafficPoint) bool { return a.Requests > b.Requests })

	rows := []string{
		row("Snapshots", components.FormatCount(int64(len(points)))),
		row("Peak", fmt.Sprintf("%s at %s", components.FormatCount(int64(peak.Requests)), peak.Date)),
	}
	if deltas {
		rows = append(rows,
			row("Requests in range", components.FormatSigned(int64(lo.Sum(requests)))),
			row("Average per interval", components.FormatAxis(lo.Mean(requests))),
			row("5xx in range", components.FormatSigned(int64(lo.Sum(errors)))),
		)
	} else {
		first, last := points[0], points[len(points)-1]
		rows = append(rows,
			row("Growth", components.FormatSigned(int64(last.Requests-first.Requests))),
			row("5xx growth", components.FormatSigned(int64(last.Errors-first.Errors))),
		)
	}

	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{styles.CardTitleStyle.Render("Summary")}, rows...)...,
	))
}

func row(label, value string) string {
	return styles.LabelStyle.Width(22).Render(label) + styles.ValueStyle.Render(value)
}

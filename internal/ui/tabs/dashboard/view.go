package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/analytics"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/styles"
)

// Cards narrower than this wrap to fewer columns.
const minCardWidth = 30

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	if m.dirty {
		m.viewport.SetContent(m.renderContent())
		m.dirty = false
	}

	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderContent() string {
	view := m.state.View()
	if !view.HasData() {
		return m.renderEmpty()
	}

	contentWidth := max(m.viewport.Width, minCardWidth)

	sections := []string{
		m.renderTitle(view),
		grid(contentWidth, m.metricCards(view, contentWidth)...),
		grid(contentWidth, m.statusCards(view, contentWidth)...),
		m.renderTrend(view, contentWidth),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderEmpty() string {
	title := styles.TitleStyle.Render("TTML Stats")
	icon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		fmt.Sprintf("  %s %s", icon, styles.HelpStyle.Render("No snapshots recorded yet")),
		"",
		styles.InfoTextStyle.Render("  ╰─▶ Run `tsd sync` or press s to record one"),
	)
}

func (m *Model) renderTitle(view analytics.DashboardView) string {
	latest := view.Latest
	state := latest.CircuitBreaker.State

	health := styles.GetCircuitStyle(state).Render("● " + state.Label())
	title := styles.TitleStyle.Render("TTML Stats") + "  " + health

	subtitle := "Latest snapshot " + latest.Timestamp
	if view.ShowDeltas() {
		subtitle += fmt.Sprintf("  •  counters summed over %s", strings.ToLower(view.TimeRange.String()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

// grid lays cards out in as many columns as fit, each column the same width.
func grid(width int, cards ...string) string {
	perRow := min(max(width/minCardWidth, 1), len(cards))
	if perRow == 0 {
		return ""
	}

	rows := lo.Map(lo.Chunk(cards, perRow), func(row []string, _ int) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, row...)
	})
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// cardWidth returns the text width inside each of count cards sharing a
// row. CardStyle adds a one cell border and two cells of padding per side.
func cardWidth(width, count int) int {
	perRow := min(max(width/minCardWidth, 1), count)
	return max(width/perRow-6, minCardWidth-6)
}

func card(title string, inner int, lines ...string) string {
	body := append([]string{styles.CardTitleStyle.Render(title)}, lines...)
	return styles.CardStyle.Width(inner + 4).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func kv(label, value string, width int) string {
	l := styles.LabelStyle.Render(label)
	v := styles.ValueStyle.Render(value)
	gap := max(width-lipgloss.Width(l)-lipgloss.Width(v), 1)
	return l + strings.Repeat(" ", gap) + v
}

func signedKV(label string, delta int64, width int) string {
	l := styles.LabelStyle.Render(label)
	v := styles.GetDeltaStyle(float64(delta)).Bold(true).Render(components.FormatSigned(delta))
	gap := max(width-lipgloss.Width(l)-lipgloss.Width(v), 1)
	return l + strings.Repeat(" ", gap) + v
}

// counter renders a cumulative counter, or its range sum in delta mode.
func counter(view analytics.DashboardView, label string, total, delta int64, width int) string {
	if view.ShowDeltas() {
		return signedKV(label, delta, width)
	}
	return kv(label, components.FormatCount(total), width)
}

func (m *Model) metricCards(view analytics.DashboardView, width int) []string {
	w := cardWidth(width, 4)
	s := view.Latest
	d := view.DeltaSum

	requests := card("Requests", w,
		counter(view, "Total", s.Requests.Total, d.Requests.Total, w),
		kv("Per hour", components.FormatCount(s.Requests.PerHour), w),
		kv("Per minute", components.FormatRate(s.Requests.PerMinute), w),
		counter(view, "Lyrics", s.Requests.Lyrics, d.Requests.Lyrics, w),
		counter(view, "Cache", s.Requests.Cache, d.Requests.Cache, w),
		counter(view, "Health", s.Requests.Health, d.Requests.Health, w),
		counter(view, "Stats", s.Requests.Stats, d.Requests.Stats, w),
		counter(view, "Other", s.Requests.Other, d.Requests.Other, w),
	)

	latency := card("Latency", w,
		kv("Average", components.FormatMillis(s.ResponseTimes.Avg), w),
		kv("Lyrics avg", components.FormatMillis(s.ResponseTimes.AvgLyrics), w),
		kv("Fastest", components.FormatMillis(s.ResponseTimes.Min), w),
		kv("Slowest", components.FormatMillis(s.ResponseTimes.Max), w),
	)

	cache := card("Cache", w,
		m.gauge.ViewCompact(s.Cache.HitRate, w),
		counter(view, "Hits", s.Cache.Hits, d.Cache.Hits, w),
		counter(view, "Misses", s.Cache.Misses, d.Cache.Misses, w),
		counter(view, "Negative hits", s.Cache.NegativeHits, d.Cache.NegativeHits, w),
		counter(view, "Stale hits", s.Cache.StaleHits, d.Cache.StaleHits, w),
	)

	uptime := card("Uptime", w,
		styles.ValueStyle.Render(components.FormatUptime(s.Server.UptimeSeconds)),
		kv("Started", s.Server.StartTime, w),
	)

	return []string{requests, latency, cache, uptime}
}

func (m *Model) statusCards(view analytics.DashboardView, width int) []string {
	w := cardWidth(width, 4)
	s := view.Latest
	d := view.DeltaSum

	cb := s.CircuitBreaker
	breaker := card("Circuit Breaker", w,
		kv("State", styles.GetCircuitStyle(cb.State).Render(string(cb.State)), w),
		kv("Cooldown", components.FormatCooldown(cb.CooldownRemaining), w),
		counter(view, "Failures", cb.Failures, d.CircuitBreaker.Failures, w),
	)

	rl := s.RateLimiting
	if view.ShowDeltas() {
		rl = d.RateLimiting
	}
	exceeded := components.FormatCount(rl.Exceeded)
	if rl.Exceeded > 0 {
		exceeded = styles.WarningTextStyle.Bold(true).Render(exceeded)
	}
	rateLines := []string{
		kv("Normal tier", components.FormatCount(rl.NormalTier), w),
		kv("Cached tier", components.FormatCount(rl.CachedTier), w),
		kv("Exceeded", exceeded, w),
	}
	if tiers := rl.NormalTier + rl.CachedTier; tiers > 0 {
		share := float64(rl.CachedTier) / float64(tiers) * 100
		label := fmt.Sprintf(" %.0f%% cached", share)
		rateLines = append(rateLines, components.RenderGradientBar(share, max(w-lipgloss.Width(label), 1))+styles.HelpStyle.Render(label))
	}
	rateLimits := card("Rate Limiting", w, rateLines...)

	var storageLines []string
	if view.ShowDeltas() {
		storageLines = []string{
			signedKV("Keys", d.Storage.Keys, w),
			kv("Size change", fmt.Sprintf("%+.2f MB", d.Storage.StorageMB), w),
		}
	} else {
		storageLines = []string{
			kv("Keys", components.FormatCount(s.Cache.Keys), w),
			kv("Size", components.FormatMB(s.Cache.StorageMB), w),
		}
	}
	storage := card("Storage", w, storageLines...)

	rs := s.Responses
	if view.ShowDeltas() {
		rs = d.Responses
	}
	segments := []components.Segment{
		{Label: "2xx", Value: float64(rs.Status2xx), Color: styles.Success},
		{Label: "4xx", Value: float64(rs.Status4xx), Color: styles.Warning},
		{Label: "5xx", Value: float64(rs.Status5xx), Color: styles.Error},
	}
	responses := card("Responses", w,
		components.RenderShareBar(segments, w),
		components.RenderShareLegend(segments),
	)

	return []string{breaker, rateLimits, storage, responses}
}

func (m *Model) renderTrend(view analytics.DashboardView, width int) string {
	series := analytics.TrafficSeries(view)
	if len(series) < 2 {
		return ""
	}
	values := lo.Map(series, func(p analytics.TrafficPoint, _ int) float64 { return p.Requests })

	label := "Requests"
	if view.ShowDeltas() {
		label = "Requests per interval"
	}
	spark := lipgloss.NewStyle().Foreground(styles.Requests).Render(components.RenderSparkline(values, width-6))

	return card(label+" · "+view.TimeRange.String(), width-6, spark,
		styles.HelpStyle.Render(fmt.Sprintf("%s → %s", series[0].Date, series[len(series)-1].Date)))
}

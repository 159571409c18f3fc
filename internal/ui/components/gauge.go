package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/styles"
)

const (
	gaugeLow  = "#ff6b6b"
	gaugeHigh = "#51cf66"
)

// Gauge renders a 0-100 percentage as a gradient progress bar, red at
// the low end and green at the high end.
type Gauge struct {
	progress progress.Model
}

// NewGauge creates a gauge with a default bar width.
func NewGauge() Gauge {
	return Gauge{
		progress: progress.New(
			progress.WithScaledGradient(gaugeLow, gaugeHigh),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

// View renders label, bar and the colored percentage within width columns.
func (g Gauge) View(percent float64, label string, width int) string {
	const (
		labelWidth   = 12
		percentWidth = 7
	)
	percent = clampPercent(percent)

	g.progress.Width = max(width-labelWidth-percentWidth-1, 10)
	bar := g.progress.ViewAs(percent / 100)

	labelStr := styles.LabelStyle.Width(labelWidth).Render(label)
	percentStr := styles.GetRateStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(FormatPercent(percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

// ViewCompact renders the bar and percentage without a label.
func (g Gauge) ViewCompact(percent float64, width int) string {
	percent = clampPercent(percent)
	g.progress.Width = max(width-8, 5)

	bar := g.progress.ViewAs(percent / 100)
	percentStr := styles.GetRateStyle(percent).Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

func clampPercent(p float64) float64 {
	return min(max(p, 0), 100)
}

// RenderGradientBar renders just the bar part with gradient colors. It
// needs no progress model, so it is used inside tables and legends.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent/100), 0), width)

	var b strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(gaugeLow, gaugeHigh, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}

	return b.String()
}

// Segment is one slice of a share bar.
type Segment struct {
	Label string
	Value float64
	Color lipgloss.Color
}

// RenderShareBar draws segments side by side, each taking a width
// proportional to its share of the total. Rounding leftovers go to the
// largest segment so the bar always spans exactly width cells.
func RenderShareBar(segments []Segment, width int) string {
	total := lo.SumBy(segments, func(s Segment) float64 { return max(s.Value, 0) })
	if width < 1 || total <= 0 {
		return lipgloss.NewStyle().Foreground(styles.Subtle).Render(strings.Repeat("░", max(width, 0)))
	}

	cells := make([]int, len(segments))
	used := 0
	largest := 0
	for i, s := range segments {
		cells[i] = int(max(s.Value, 0) / total * float64(width))
		used += cells[i]
		if s.Value > segments[largest].Value {
			largest = i
		}
	}
	cells[largest] += width - used

	var b strings.Builder
	for i, s := range segments {
		if cells[i] == 0 {
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Render(strings.Repeat("█", cells[i])))
	}
	return b.String()
}

// RenderShareLegend lists each segment with its percentage of the total.
func RenderShareLegend(segments []Segment) string {
	total := lo.SumBy(segments, func(s Segment) float64 { return max(s.Value, 0) })

	labelWidth := 0
	for _, s := range segments {
		labelWidth = max(labelWidth, lipgloss.Width(s.Label))
	}

	lines := lo.Map(segments, func(s Segment, _ int) string {
		share := 0.0
		if total > 0 {
			share = max(s.Value, 0) / total * 100
		}
		box := lipgloss.NewStyle().Foreground(s.Color).Render("■")
		label := lipgloss.NewStyle().Width(labelWidth).Render(s.Label)
		return fmt.Sprintf("%s %s %6s  %s", box, label, FormatPercent(share), FormatAxis(s.Value))
	})
	return strings.Join(lines, "\n")
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}

// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/styles"
)

const noData = "No data available"

// Minimum plot size; asciigraph misbehaves below this.
const (
	minChartWidth  = 20
	minChartHeight = 3
)

var (
	sparkChars  = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	columnChars = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
)

// Series is one named line of a multi-series chart.
type Series struct {
	Label  string
	Values []float64
	Color  asciigraph.AnsiColor
	Legend lipgloss.Color
}

func clampSize(width, height int) (int, int) {
	return max(width, minChartWidth), max(height, minChartHeight)
}

// RenderMultiLineChart plots several series on shared axes. Shorter series
// are padded with zeros so every line spans the same x range.
func RenderMultiLineChart(series []Series, width, height int, caption string) string {
	longest := 0
	for _, s := range series {
		longest = max(longest, len(s.Values))
	}
	if longest == 0 {
		return styles.HelpStyle.Render(noData)
	}
	width, height = clampSize(width, height)

	data := make([][]float64, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	for i, s := range series {
		data[i] = make([]float64, longest)
		copy(data[i], s.Values)
		colors[i] = s.Color
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

// RenderColumnChart draws vertical bars, one per sample. When there are more
// samples than columns, neighbouring samples are averaged.
func RenderColumnChart(values []float64, width, height int, color lipgloss.Color) string {
	if len(values) == 0 {
		return styles.HelpStyle.Render(noData)
	}
	width, height = clampSize(width, height)

	axis := axisWidth(values)
	cols := resample(values, max(1, width-axis-2))
	low, high := bounds(cols)
	low = min(low, 0)
	span := high - low
	if span == 0 {
		span = 1
	}

	bar := lipgloss.NewStyle().Foreground(color)
	levels := len(columnChars) - 1

	lines := make([]string, 0, height+1)
	for row := height - 1; row >= 0; row-- {
		var b strings.Builder
		for _, v := range cols {
			// Eighths of a cell filled at this row.
			filled := int(math.Round((v-low)/span*float64(height*levels))) - row*levels
			filled = min(max(filled, 0), levels)
			b.WriteRune(columnChars[filled])
		}
		lines = append(lines, axisLabel(row, height, low, high, axis)+" ┤"+bar.Render(b.String()))
	}
	lines = append(lines, strings.Repeat(" ", axis)+" └"+strings.Repeat("─", len(cols)))

	return strings.Join(lines, "\n")
}

// RenderScatterChart plots each sample as a dot on a width by height grid.
func RenderScatterChart(values []float64, width, height int, color lipgloss.Color) string {
	if len(values) == 0 {
		return styles.HelpStyle.Render(noData)
	}
	width, height = clampSize(width, height)

	axis := axisWidth(values)
	plotWidth := max(1, width-axis-2)
	low, high := bounds(values)
	span := high - low

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", plotWidth))
	}

	for i, v := range values {
		x := 0
		if len(values) > 1 {
			x = i * (plotWidth - 1) / (len(values) - 1)
		}
		y := 0
		if span > 0 {
			y = int(math.Round((v - low) / span * float64(height-1)))
		}
		grid[height-1-y][x] = '●'
	}

	dot := lipgloss.NewStyle().Foreground(color)
	lines := make([]string, 0, height+1)
	for i, row := range grid {
		lines = append(lines, axisLabel(height-1-i, height, low, high, axis)+" ┤"+dot.Render(string(row)))
	}
	lines = append(lines, strings.Repeat(" ", axis)+" └"+strings.Repeat("─", plotWidth))

	return strings.Join(lines, "\n")
}

// axisLabel prints the top and bottom values, blank elsewhere.
func axisLabel(row, height int, low, high float64, width int) string {
	switch row {
	case height - 1:
		return fmt.Sprintf("%*s", width, FormatAxis(high))
	case 0:
		return fmt.Sprintf("%*s", width, FormatAxis(low))
	default:
		return strings.Repeat(" ", width)
	}
}

func axisWidth(values []float64) int {
	low, high := bounds(values)
	return max(len(FormatAxis(low)), len(FormatAxis(high)))
}

func bounds(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return lo.Min(values), lo.Max(values)
}

// resample averages values into at most n buckets.
func resample(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		start := i * len(values) / n
		end := max((i+1)*len(values)/n, start+1)
		out[i] = lo.Sum(values[start:end]) / float64(end-start)
	}
	return out
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Color lipgloss.Color
}

// RenderBarChart creates a horizontal bar chart with right-aligned labels.
// format renders the value printed after each bar.
func RenderBarChart(bars []Bar, width int, format func(float64) string) string {
	if len(bars) == 0 {
		return ""
	}
	if format == nil {
		format = FormatAxis
	}

	maxVal := lo.MaxBy(bars, func(a, b Bar) bool { return a.Value > b.Value }).Value
	if maxVal <= 0 {
		maxVal = 1
	}

	labelWidth := 0
	valueWidth := 0
	for _, b := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
		valueWidth = max(valueWidth, len(format(b.Value)))
	}

	barWidth := max(width-labelWidth-valueWidth-4, 10)

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		barLen := max(int(b.Value/maxVal*float64(barWidth)), 0)
		style := lipgloss.NewStyle().Foreground(b.Color)

		label := lipgloss.NewStyle().Width(labelWidth).Align(lipgloss.Right).Render(b.Label)
		bar := style.Render(strings.Repeat("█", barLen))
		pad := strings.Repeat(" ", barWidth-barLen)
		lines = append(lines, label+" │"+bar+pad+" "+format(b.Value))
	}

	return strings.Join(lines, "\n")
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := resample(values, width)
	low, high := bounds(sampled)
	span := high - low

	var b strings.Builder
	for _, v := range sampled {
		idx := len(sparkChars) - 1
		if span > 0 {
			idx = int((v - low) / span * float64(len(sparkChars)-1))
		}
		b.WriteRune(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}

	return b.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := lo.Map(items, func(item LegendItem, _ int) string {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		return fmt.Sprintf("%s %s", colorBox, item.Label)
	})
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

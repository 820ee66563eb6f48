// Package components holds the charts, cards and indicators shared by the tabs.
package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-runewidth"

	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

const (
	minChartWidth  = 20
	minChartHeight = 3
)

// RenderLineChart plots one KPI series with its key as the caption.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	return asciigraph.Plot(data,
		asciigraph.Width(max(width, minChartWidth)),
		asciigraph.Height(max(height, minChartHeight)),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue),
	)
}

// RenderBarChart draws one right-aligned label and bar per value, scaled to
// the largest value. Missing labels render blank.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	peak := max(slices.Max(values), 0)
	if peak == 0 {
		peak = 1
	}
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}
	barSpace := max(width-labelWidth-10, 10)

	rows := make([]string, len(values))
	for i, v := range values {
		var label string
		if i < len(labels) {
			label = labels[i]
		}
		n := max(int(v/peak*float64(barSpace)), 0)
		rows[i] = fmt.Sprintf("%s │%s %.0f", runewidth.FillLeft(label, labelWidth), strings.Repeat("█", n), v)
	}
	return strings.Join(rows, "\n")
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws values as one block character each, scaled between
// the series minimum and maximum, sampling when there are more values than width.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	lo, hi := slices.Min(values), slices.Max(values)
	step := max(float64(len(values))/float64(width), 1)
	top := len(sparkLevels) - 1

	var b strings.Builder
	for i := 0; i < width; i++ {
		idx := int(float64(i) * step)
		if idx >= len(values) {
			break
		}
		level := 0
		if hi > lo {
			level = int((values[idx] - lo) / (hi - lo) * float64(top))
		}
		b.WriteRune(sparkLevels[min(max(level, 0), top)])
	}
	return b.String()
}

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/kpi-dashboard-tui/internal/stats"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

// RenderStatCard renders one labelled figure in a small bordered box.
func RenderStatCard(label, value string, valueStyle lipgloss.Style, width int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.StatLabelStyle.Render(label),
		valueStyle.Render(value),
	)
	return styles.StatCardStyle.Width(width).Render(content)
}

// TrendStyle returns the color for a summary's direction.
func TrendStyle(s stats.Summary) lipgloss.Style {
	if s.Trend() == stats.TrendDown {
		return styles.TrendDownStyle
	}
	return styles.TrendUpStyle
}

// RenderSummaryCards renders the six summary cards for a KPI series,
// wrapping onto a second row when the width is too small for one.
func RenderSummaryCards(s stats.Summary, width int) string {
	if s.Count == 0 {
		return styles.HelpStyle.Render("No values for " + s.KPI)
	}

	cardWidth := 18
	cards := []string{
		RenderStatCard("Current", stats.FormatValue(s.Current), styles.StatValueStyle, cardWidth),
		RenderStatCard("Change", stats.FormatChange(s), TrendStyle(s), cardWidth),
		RenderStatCard("Average", stats.FormatValue(s.Average), styles.StatValueStyle, cardWidth),
		RenderStatCard("Min", extremumText(s.Min), styles.StatValueStyle, cardWidth),
		RenderStatCard("Max", extremumText(s.Max), styles.StatValueStyle, cardWidth),
		RenderStatCard("Std Dev", stats.FormatValue(s.StdDev), styles.StatValueStyle, cardWidth),
	}

	perRow := max(width/(cardWidth+3), 1)
	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func extremumText(e stats.Extremum) string {
	date := stats.FormatDate(e.Time)
	if date == "" {
		return stats.FormatValue(e.Value)
	}
	return fmt.Sprintf("%s (%s)", stats.FormatValue(e.Value), date)
}

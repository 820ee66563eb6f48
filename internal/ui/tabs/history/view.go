package history

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	if m.loading && m.snapshot == nil {
		return m.renderLoading()
	}
	if m.errorMsg != "" {
		return m.renderError()
	}
	if m.snapshot == nil || m.snapshot.Stats == nil || m.snapshot.Stats.TotalQueries == 0 {
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(),
		m.renderTotals(),
		m.renderDailyChart(),
		m.renderRecent(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading query history..."))
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s",
		styles.ErrorTextStyle.Render("Error:"),
		m.errorMsg,
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		styles.HelpStyle.Render("No queries logged in this range."),
		styles.HelpStyle.Render("Queries appear here as soon as they finish."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Query History")

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", m.timeRange.String()))
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	var subtitle string
	if !m.lastRefresh.IsZero() {
		subtitle = styles.HelpStyle.Render("Refreshed " + m.lastRefresh.Format("15:04:05"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderTotals() string {
	cardWidth := max(m.width-6, 40)
	s := m.snapshot.Stats

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Totals")),
		"",
		fmt.Sprintf("  Queries: %s   Failed: %s   Records: %s   Avg: %s",
			styles.StatValueStyle.Render(fmt.Sprintf("%d", s.TotalQueries)),
			styles.ErrorTextStyle.Render(fmt.Sprintf("%d", s.FailedQueries)),
			styles.StatValueStyle.Render(fmt.Sprintf("%d", s.TotalRecords)),
			styles.StatValueStyle.Render(fmt.Sprintf("%.0f ms", s.AvgDurationMs)),
		),
		"",
		"  " + m.rateBar.View(s.SuccessRate(), "Success rate", cardWidth-8),
	}

	if len(s.ByTechnology) > 0 {
		rows = append(rows, "", styles.HelpStyle.Render("  By technology"))
		for _, tech := range slices.Sorted(maps.Keys(s.ByTechnology)) {
			count := s.ByTechnology[tech]
			share := float64(count) / float64(s.TotalQueries) * 100
			rows = append(rows, fmt.Sprintf("  %-6s %s %s",
				strings.ToUpper(tech),
				components.RenderGradientBar(share, 20),
				styles.HelpStyle.Render(fmt.Sprintf("%d queries", count)),
			))
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderDailyChart() string {
	cardWidth := max(m.width-6, 40)

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("📅")
	rows := []string{
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Queries per Day")),
		"",
	}

	daily := m.snapshot.Daily
	if len(daily) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No daily data available"))
	} else {
		values := make([]float64, len(daily))
		labels := make([]string, len(daily))
		for i, d := range daily {
			values[i] = float64(d.Count)
			labels[i] = d.Date.Format("Jan 02")
		}

		chart := components.RenderBarChart(values, labels, max(cardWidth-12, 30))
		for line := range strings.SplitSeq(chart, "\n") {
			rows = append(rows, "  "+line)
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderRecent() string {
	cardWidth := max(m.width-6, 40)

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("🕐")
	rows := []string{
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Recent Queries")),
		"",
	}

	if len(m.snapshot.Recent) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No recent queries"))
	}
	for _, e := range m.snapshot.Recent {
		rows = append(rows, "  "+renderEntry(e))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderEntry(e models.QueryLogEntry) string {
	outcome := styles.SuccessTextStyle.Render(fmt.Sprintf("%-10s", e.Outcome))
	if e.Outcome.IsFailure() {
		outcome = styles.ErrorTextStyle.Render(fmt.Sprintf("%-10s", e.Outcome))
	}

	kpis := strings.Join(e.KPIs, ",")
	if len(kpis) > 30 {
		kpis = kpis[:27] + "..."
	}

	detail := fmt.Sprintf("%d rows, %d ms", e.RecordCount, e.DurationMs)
	if e.Outcome.IsFailure() && e.Error != "" {
		detail = e.Error
		if len(detail) > 40 {
			detail = detail[:37] + "..."
		}
	}

	return fmt.Sprintf("%s  %-5s %-30s %s %s",
		e.Timestamp.Local().Format("Jan 02 15:04"),
		e.Technology,
		kpis,
		outcome,
		styles.HelpStyle.Render(detail),
	)
}

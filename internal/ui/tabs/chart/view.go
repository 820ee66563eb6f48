package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/kpi-dashboard-tui/internal/stats"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

// View renders the chart tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.spinner.Centered(m.width, m.height)
	}

	sections := []string{m.renderTitle()}

	if m.Selected() == "" {
		sections = append(sections, m.renderEmpty())
	} else {
		sections = append(sections, m.renderSelector(), m.renderChart())
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("KPI Chart")

	subtitle := "Source: " + m.source.String()
	if m.source == SourceResult {
		if r := m.state.GetLastResult(); r != nil && r.Descriptor != nil {
			d := r.Descriptor
			subtitle += fmt.Sprintf(" · %s %s → %s", strings.ToUpper(d.Technology.String()), d.StartDate, d.EndDate)
		}
	} else {
		subtitle += fmt.Sprintf(" · %d records", m.state.GetRecordCount())
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderEmpty() string {
	icon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")

	hint := "  ╰─▶ Run a query from the Query tab, or press s for the records file"
	if m.source == SourceRecords {
		hint = "  ╰─▶ Write records to the records file, or press s for the last query"
	}

	rows := []string{
		fmt.Sprintf("%s %s", icon, styles.HelpStyle.Render("Nothing to chart from the "+m.source.String())),
		"",
		styles.InfoTextStyle.Render(hint),
	}
	return styles.CardStyle.Width(max(m.width-6, 40)).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderSelector renders the KPI list with the charted key highlighted.
func (m *Model) renderSelector() string {
	keys := m.Keys()
	selected := m.Selected()

	items := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == selected {
			items = append(items, styles.TableSelectedStyle.Render(" "+k+" "))
		} else {
			items = append(items, styles.HelpStyle.Render(" "+k+" "))
		}
	}

	return lipgloss.NewStyle().Width(max(m.width-6, 40)).Render(strings.Join(items, " ")) + "\n"
}

func (m *Model) renderChart() string {
	series, summary, _ := m.Series()
	cardWidth := max(m.width-6, 40)

	icon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	header := fmt.Sprintf("%s %s", icon, styles.CardTitleStyle.Render(m.catalog.DisplayName(summary.KPI)))
	if summary.RangeLabel != "" {
		header += "  " + styles.HelpStyle.Render(summary.RangeLabel)
	}

	chartHeight := max(min(m.height/3, 15), 5)
	chart := components.RenderLineChart(stats.Values(series, summary.KPI), cardWidth-14, chartHeight, summary.KPI)

	rows := []string{
		header,
		"",
		chart,
		"",
		components.RenderSummaryCards(summary, cardWidth-4),
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/kpi-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderCatalogCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if c := m.config; c != nil {
		rows = append(rows,
			renderRow("KPI API", c.KPIAPIURL),
			renderRow("Database", c.DatabasePath),
			renderRow("Records File", c.RecordsPath),
			renderRow("Listen Address", c.ListenAddr),
			renderRow("Log Level", c.LogLevel),
			renderRow("Log File", orNone(c.LogFile)),
			renderRow("Alert Threshold", fmt.Sprintf("%.1f%%", c.AlertChangePercent)),
			renderRow("Log Retention", c.QueryLogRetention.String()),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderCatalogCard() string {
	rows := []string{styles.CardTitleStyle.Render("KPI Catalog"), ""}

	for _, tech := range m.catalog.Technologies() {
		rows = append(rows, renderRow(strings.ToUpper(tech.String()), fmt.Sprintf("%d KPIs", len(m.catalog.AllowedKPIs(tech)))))
	}
	rows = append(rows,
		renderRow("Distinct Keys", fmt.Sprintf("%d", len(m.catalog.GlobalKeys()))),
		"",
		fmt.Sprintf("Records loaded: %s", styles.InfoTextStyle.Render(fmt.Sprintf("%d", m.state.GetRecordCount()))),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About KPI Dashboard"),
		"",
		renderRow("Version", version.GetVersion()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderRow renders a key-value row.
func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func orNone(s string) string {
	if s == "" {
		return "(stderr)"
	}
	return s
}

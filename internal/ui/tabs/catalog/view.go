package catalog

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

// View renders the catalog tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderSearch(),
		m.renderTable(),
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("KPI Catalog")

	tech := "all technologies"
	if t := m.Technology(); t != "" {
		tech = t.String()
	}
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d KPIs · %s", len(m.VisibleKeys()), tech))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderSearch() string {
	if m.searching {
		return styles.FocusedStyle.Render("/ ") + m.search.View()
	}
	if m.term != "" {
		return styles.HelpStyle.Render(fmt.Sprintf("filter: %q (esc to clear)", m.term))
	}
	return styles.HelpStyle.Render("press / to search, t to change technology")
}

func (m *Model) renderTable() string {
	cardWidth := max(m.width-6, 60)

	if len(m.VisibleKeys()) == 0 {
		icon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
		return styles.CardStyle.Width(cardWidth).Render(
			fmt.Sprintf("%s %s", icon, styles.HelpStyle.Render("No KPIs match the filter")),
		)
	}

	return styles.CardStyle.Width(cardWidth).Render(m.table.View())
}

package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/kpi-dashboard-tui/internal/stats"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

const sparklineWidth = 16

// View renders the query tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderForm(),
		m.renderStatus(),
	}
	if m.result != nil {
		sections = append(sections, m.renderResult())
	}

	return styles.DocStyle.
		Width(m.width).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	hint := "press e to edit, enter to run"
	if m.editing {
		hint = "enter to run, esc to leave the form"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("KPI Query"),
		styles.HelpStyle.Render(hint),
	)
}

func (m *Model) renderForm() string {
	labelStyle := lipgloss.NewStyle().Width(14)

	rows := make([]string, 0, fieldCount)
	for i, input := range m.inputs {
		label := fieldLabels[i]
		if m.editing && i == m.focus {
			label = styles.FocusedStyle.Render(labelStyle.Render("> " + label))
		} else {
			label = styles.BlurredStyle.Render(labelStyle.Render("  " + label))
		}

		row := label + " " + input.View()
		if msg := m.fieldErrors[i]; msg != "" {
			row += "  " + styles.FieldErrorStyle.Render(msg)
		}
		rows = append(rows, row)
	}

	box := styles.BlurredBorderStyle
	if m.editing {
		box = styles.FocusedBorderStyle
	}
	return box.Render(strings.Join(rows, "\n"))
}

func (m *Model) renderStatus() string {
	switch {
	case m.running:
		return m.spinner.View() + styles.HelpStyle.Render("  (esc to cancel)")
	case m.formError != "":
		return styles.ErrorTextStyle.Render("Error: " + m.formError)
	}
	return ""
}

func (m *Model) renderResult() string {
	r := m.result
	d := r.Descriptor

	header := styles.SubTitleStyle.Render(fmt.Sprintf("%s  %s → %s", strings.ToUpper(d.Technology.String()), d.StartDate, d.EndDate))
	meta := styles.HelpStyle.Render(fmt.Sprintf("%d records in %s · id %s · press 2 for charts",
		len(r.Records), r.Duration.Round(time.Millisecond), shortID(r.ID)))

	rows := []string{header, meta, ""}
	rows = append(rows, styles.TableHeaderStyle.Render(fmt.Sprintf("%-32s %12s %12s %12s  %s", "KPI", "Current", "Change", "Average", "Trend")))

	for _, s := range r.Summaries {
		name := m.catalog.DisplayName(s.KPI)
		if len(name) > 32 {
			name = name[:29] + "..."
		}

		change := fmt.Sprintf("%12s", "-")
		if s.Count > 0 {
			change = components.TrendStyle(s).Render(fmt.Sprintf("%12s", stats.FormatChange(s)))
		}
		spark := components.RenderSparkline(stats.Values(r.Records, s.KPI), sparklineWidth)

		rows = append(rows, fmt.Sprintf("%-32s %12s %s %12s  %s",
			name, stats.FormatValue(s.Current), change, stats.FormatValue(s.Average), spark))
	}

	return styles.CardStyle.Render(strings.Join(rows, "\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

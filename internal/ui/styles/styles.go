package styles

import "github.com/charmbracelet/lipgloss"

func rounded(border lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Layout.
var (
	DocStyle = lipgloss.NewStyle().Margin(1, 2).Padding(0, 1)

	TitleStyle     = fg(Primary).Bold(true).MarginBottom(1)
	SubTitleStyle  = fg(Secondary).Bold(true)
	CardStyle      = rounded(Subtle).Padding(1, 2).MarginBottom(1)
	CardTitleStyle = fg(Primary).Bold(true).MarginBottom(1)

	ToastStyle     = rounded(Primary).Padding(0, 1).MarginBottom(1)
	HelpStyle      = fg(TextMuted)
	HelpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Primary).
			Padding(1, 3).
			Background(BgDark)
)

// Summary figures.
var (
	StatCardStyle  = rounded(Subtle).Padding(0, 1).MarginRight(1)
	StatLabelStyle = fg(TextMuted)
	StatValueStyle = fg(TextPrimary).Bold(true)

	TrendUpStyle   = fg(Success).Bold(true)
	TrendDownStyle = fg(Error).Bold(true)
)

// Query form.
var (
	FocusedStyle       = fg(Primary).Bold(true)
	BlurredStyle       = fg(TextMuted)
	FieldErrorStyle    = fg(Error).Italic(true)
	FocusedBorderStyle = rounded(Primary).Padding(0, 1)
	BlurredBorderStyle = rounded(Subtle).Padding(0, 1)
)

// Catalog table.
var (
	TableHeaderStyle = fg(Primary).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(Subtle)
	TableSelectedStyle = fg(TextPrimary).Background(BgAccent).Bold(true)
)

// Status text.
var (
	ErrorTextStyle   = fg(Error)
	SuccessTextStyle = fg(Success)
	WarningTextStyle = fg(Warning)
	InfoTextStyle    = fg(Primary)
)

// Package styles holds the terminal palette and the lipgloss styles shared by the tabs.
package styles

import "github.com/charmbracelet/lipgloss"

// ANSI-256 palette.
var (
	Primary   = lipgloss.Color("39")
	Secondary = lipgloss.Color("63")
	Subtle    = lipgloss.Color("240")

	Success = lipgloss.Color("42")
	Error   = lipgloss.Color("196")
	Warning = lipgloss.Color("220")

	BgDark   = lipgloss.Color("235")
	BgAccent = lipgloss.Color("236")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// RateStyle colors a success percentage: green above 95, yellow above 80, red otherwise.
func RateStyle(percent float64) lipgloss.Style {
	switch {
	case percent > 95:
		return SuccessTextStyle
	case percent > 80:
		return WarningTextStyle
	default:
		return ErrorTextStyle
	}
}

// CenterBoth places content in the middle of a width x height box.
func CenterBoth(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

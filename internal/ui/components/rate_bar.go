package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

const (
	lowHex  = "#ff6b6b"
	highHex = "#51cf66"
)

var lowColor, highColor = mustHex(lowHex), mustHex(highHex)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RateBar draws a percentage as a red-to-green progress bar with a label.
type RateBar struct {
	bar progress.Model
}

func NewRateBar() RateBar {
	return RateBar{bar: progress.New(
		progress.WithScaledGradient(lowHex, highHex),
		progress.WithoutPercentage(),
	)}
}

// View renders "label [bar] NN%"; 30 columns go to the label and the figure.
func (r RateBar) View(percent float64, label string, width int) string {
	percent = min(max(percent, 0), 100)
	r.bar.Width = max(width-30, 10)

	return lipgloss.JoinHorizontal(lipgloss.Center,
		lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(15).Render(label),
		r.bar.ViewAs(percent/100),
		" ",
		styles.RateStyle(percent).Width(6).Align(lipgloss.Right).Render(fmt.Sprintf("%.0f%%", percent)),
	)
}

// RenderGradientBar fills width cells proportionally to percent, blending
// each filled cell from red to green.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := min(max(int(float64(width)*percent/100), 0), width)
	empty := lipgloss.NewStyle().Foreground(styles.Subtle)

	var b strings.Builder
	for i := range width {
		if i >= filled {
			b.WriteString(empty.Render("░"))
			continue
		}
		t := float64(i) / float64(max(width-1, 1))
		cell := lipgloss.Color(lowColor.BlendLab(highColor, t).Clamped().Hex())
		b.WriteString(lipgloss.NewStyle().Foreground(cell).Render("█"))
	}
	return b.String()
}

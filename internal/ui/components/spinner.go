package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

// Busy is a labelled spinner that can also show how long the current
// operation has been running.
type Busy struct {
	spinner spinner.Model
	label   string
	started time.Time
}

// NewBusy returns an idle indicator with the given label.
func NewBusy(label string) Busy {
	s := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return Busy{spinner: s, label: label}
}

// Init starts the animation without tracking elapsed time.
func (b Busy) Init() tea.Cmd {
	return b.spinner.Tick
}

// Start resets the elapsed clock and returns the first tick.
func (b *Busy) Start() tea.Cmd {
	b.started = time.Now()
	return b.spinner.Tick
}

// Update advances the animation on spinner ticks.
func (b Busy) Update(msg tea.Msg) (Busy, tea.Cmd) {
	var cmd tea.Cmd
	b.spinner, cmd = b.spinner.Update(msg)
	return b, cmd
}

// Elapsed is the time since Start, or 0 if never started.
func (b Busy) Elapsed() time.Duration {
	if b.started.IsZero() {
		return 0
	}
	return time.Since(b.started)
}

// Label returns the text shown next to the spinner.
func (b Busy) Label() string {
	return b.label
}

// View renders the spinner, its label and, once started, whole seconds elapsed.
func (b Busy) View() string {
	text := b.label
	if !b.started.IsZero() {
		text = fmt.Sprintf("%s %ds", text, int(b.Elapsed().Seconds()))
	}
	return b.spinner.View() + " " + styles.HelpStyle.Render(text)
}

// Centered renders View in the middle of a width x height area.
func (b Busy) Centered(width, height int) string {
	return styles.CenterBoth(b.View(), width, height)
}

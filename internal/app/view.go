package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

var (
	navbarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(styles.Subtle)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(styles.Subtle).Padding(0, 2)
	contentStyle     = lipgloss.NewStyle().Padding(1, 2)
)

type toastKind struct {
	prefix string
	style  lipgloss.Style
}

var toastKinds = map[NotificationType]toastKind{
	NotificationSuccess: {"[OK]", lipgloss.NewStyle().Foreground(styles.Success)},
	NotificationError:   {"[ERR]", lipgloss.NewStyle().Foreground(styles.Error).Bold(true)},
	NotificationWarning: {"[WARN]", lipgloss.NewStyle().Foreground(styles.Warning)},
	NotificationInfo:    {"[INFO]", lipgloss.NewStyle().Foreground(styles.Secondary)},
	NotificationLoading: {"", lipgloss.NewStyle().Foreground(styles.Secondary)},
}

func (m *Model) View() string {
	var b strings.Builder
	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteByte('\n')
	}

	if !m.ready {
		b.WriteString(contentStyle.Render(m.spinner.View() + " Loading..."))
		return b.String()
	}

	if t := m.active(); t != nil {
		b.WriteString(t.View())
	} else {
		b.WriteString(contentStyle.Render(styles.HelpStyle.Render(m.activeTab.String() + " is not available.")))
	}
	view := b.String()

	if m.showHelp {
		panel := m.renderHelp()
		x := (m.width - lipgloss.Width(panel)) / 2
		y := (m.height - lipgloss.Height(panel)) / 2
		view = overlay(view, panel, x, y)
	}

	if toasts := m.renderToasts(); toasts != "" {
		view = overlay(view, toasts, m.width-lipgloss.Width(toasts)-2, 2)
	}
	return view
}

// overlay draws top over base with its top-left corner at column x, row y.
// Rows of top that fall below base are dropped.
func overlay(base, top string, x, y int) string {
	x, y = max(x, 0), max(y, 0)
	lines := strings.Split(base, "\n")
	topWidth := lipgloss.Width(top)

	for i, row := range strings.Split(top, "\n") {
		at := y + i
		if at >= len(lines) {
			break
		}
		line := lines[at]
		left := ansi.Truncate(line, x, "")
		if pad := x - lipgloss.Width(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(line, x+topWidth, "")
		lines[at] = left + row + right
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderNavbar() string {
	items := make([]string, len(tabNames))
	for i, name := range tabNames {
		if TabID(i) == m.activeTab {
			items[i] = activeTabStyle.Render(fmt.Sprintf("[%d] %s", i+1, name))
		} else {
			items[i] = inactiveTabStyle.Render(fmt.Sprintf(" %d  %s", i+1, name))
		}
	}
	return navbarStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, items...))
}

func (m *Model) renderToasts() string {
	notes := m.state.GetNotifications()
	if len(notes) == 0 {
		return ""
	}

	toasts := make([]string, len(notes))
	for i, n := range notes {
		kind := toastKinds[n.Type]
		prefix := kind.prefix
		if n.Type == NotificationLoading {
			prefix = m.spinner.View()
		}
		toasts[i] = styles.ToastStyle.Render(kind.style.Padding(0, 1).Render(prefix + " " + n.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, toasts...)
}

// renderHelp lists the global bindings followed by the active tab's.
func (m *Model) renderHelp() string {
	sections := []string{
		styles.TitleStyle.Render("Keyboard Shortcuts"),
		m.help.FullHelpView(m.keymap.FullHelp()),
	}

	if t := m.active(); t != nil {
		groups := t.FullHelp()
		if len(groups) == 0 {
			groups = [][]key.Binding{t.ShortHelp()}
		}
		if len(groups[0]) > 0 {
			sections = append(sections, "",
				styles.SubTitleStyle.Render(m.activeTab.String()),
				m.help.FullHelpView(groups))
		}
	}

	sections = append(sections, "", styles.HelpStyle.Render("? or esc to close"))
	return styles.HelpPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

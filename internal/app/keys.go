package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the global bindings. It satisfies help.KeyMap.
type KeyMap struct {
	Tabs      []key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding
}

// DefaultKeyMap binds 1..n to the tabs in order.
func DefaultKeyMap() KeyMap {
	tabs := make([]key.Binding, len(tabNames))
	for i, name := range tabNames {
		n := strconv.Itoa(i + 1)
		tabs[i] = key.NewBinding(key.WithKeys(n), key.WithHelp(n, strings.ToLower(name)))
	}
	return KeyMap{
		Tabs:      tabs,
		NextTab:   key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab/l", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("S-tab/h", "prev tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "force quit")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Tabs,
		{k.NextTab, k.PrevTab},
		{k.Help, k.Escape, k.Quit, k.ForceQuit},
	}
}

// tabFor returns the tab bound to a digit key.
func (k KeyMap) tabFor(msg tea.KeyMsg) (TabID, bool) {
	for i, b := range k.Tabs {
		if key.Matches(msg, b) {
			return TabID(i), true
		}
	}
	return 0, false
}

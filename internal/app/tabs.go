// Package app is the root Bubble Tea model: tab navigation, shared state,
// toasts and the bridge from service events to UI messages.
package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// TabID indexes the tabs in navbar order.
type TabID int

const (
	TabQuery TabID = iota
	TabChart
	TabCatalog
	TabHistory
	TabInfo
)

var tabNames = [...]string{
	TabQuery:   "Query",
	TabChart:   "Chart",
	TabCatalog: "Catalog",
	TabHistory: "History",
	TabInfo:    "Info",
}

func (t TabID) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Tab is one page of the UI. Update returns the tab so implementations may
// swap themselves out.
type Tab interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Tab, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// InputCapturer is implemented by tabs that own the keyboard while a text
// field is focused. Global bindings other than ctrl+c are then skipped.
type InputCapturer interface {
	CapturesInput() bool
}

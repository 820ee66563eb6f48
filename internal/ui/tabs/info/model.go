// Package info shows the running configuration, catalog size and build metadata.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/kpi-dashboard-tui/internal/app"
	"github.com/j-veylop/kpi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/kpi-dashboard-tui/internal/config"
)

// Model is a read-only, scrollable page. Scrolling uses the viewport's own
// key map, so there is no tab-specific keyMap.
type Model struct {
	state   *app.State
	config  *config.Config
	catalog *catalog.Catalog

	viewport      viewport.Model
	width, height int
}

// New builds the tab; cfg may be nil and a nil catalog means catalog.Default().
func New(state *app.State, cfg *config.Config, cat *catalog.Catalog) *Model {
	if cat == nil {
		cat = catalog.Default()
	}
	vp := viewport.New(0, 0)
	// h/l switch tabs globally.
	vp.KeyMap.Left.SetEnabled(false)
	vp.KeyMap.Right.SetEnabled(false)
	return &Model{state: state, config: cfg, catalog: cat, viewport: vp}
}

func (m *Model) Init() tea.Cmd { return nil }

// Update scrolls on key presses and ignores everything else.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(k)
	return m, cmd
}

func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width, m.viewport.Height = width, height
}

func (m *Model) ShortHelp() []key.Binding {
	km := m.viewport.KeyMap
	return []key.Binding{km.Up, km.Down}
}

func (m *Model) FullHelp() [][]key.Binding {
	km := m.viewport.KeyMap
	return [][]key.Binding{
		{km.Up, km.Down},
		{km.PageUp, km.PageDown, km.HalfPageUp, km.HalfPageDown},
	}
}

// Package catalog provides the catalog tab: a browsable, searchable table of KPI keys.
package catalog

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/kpi-dashboard-tui/internal/app"
	kpicatalog "github.com/j-veylop/kpi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the catalog tab.
type keyMap struct {
	Technology key.Binding
	Search     key.Binding
	Apply      key.Binding
	Clear      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Technology: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle technology"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply search"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
	}
}

// Model represents the catalog tab state.
type Model struct {
	catalog *kpicatalog.Catalog
	table   table.Model
	search  textinput.Model
	keys    keyMap

	// techIndex is an index into the catalog's technologies; -1 shows every key.
	techIndex int
	searching bool
	term      string

	width  int
	height int
}

// New creates the catalog tab. A nil catalog means the default catalog.
func New(cat *kpicatalog.Catalog) *Model {
	if cat == nil {
		cat = kpicatalog.Default()
	}

	search := textinput.New()
	search.Placeholder = "name, display name or synonym"
	search.CharLimit = 64
	search.Width = 40

	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	m := &Model{
		catalog:   cat,
		table:     t,
		search:    search,
		keys:      defaultKeyMap(),
		techIndex: -1,
	}
	m.refreshRows()
	return m
}

// Init initializes the catalog tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// CapturesInput reports whether the search box owns the keyboard.
func (m *Model) CapturesInput() bool {
	return m.searching
}

// Update handles messages for the catalog tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searching {
		return m, m.updateSearch(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Technology):
		m.CycleTechnology()
	case key.Matches(keyMsg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.term)
		return m, m.search.Focus()
	case key.Matches(keyMsg, m.keys.Clear):
		m.setTerm("")
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Apply):
		m.searching = false
		m.search.Blur()
		return nil
	case key.Matches(msg, m.keys.Clear):
		m.searching = false
		m.search.Blur()
		m.setTerm("")
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.setTerm(m.search.Value())
	return cmd
}

func (m *Model) setTerm(term string) {
	m.term = term
	m.search.SetValue(term)
	m.refreshRows()
}

// CycleTechnology moves the filter to the next technology, wrapping through "all".
func (m *Model) CycleTechnology() {
	techs := m.catalog.Technologies()
	m.techIndex++
	if m.techIndex >= len(techs) {
		m.techIndex = -1
	}
	m.refreshRows()
}

// Technology returns the technology filter, or "" when every key is shown.
func (m *Model) Technology() kpicatalog.Technology {
	techs := m.catalog.Technologies()
	if m.techIndex < 0 || m.techIndex >= len(techs) {
		return ""
	}
	return techs[m.techIndex]
}

// VisibleKeys returns the keys currently listed. With a technology selected
// they follow that technology's order; otherwise global order.
func (m *Model) VisibleKeys() []string {
	tech := m.Technology()
	if tech == "" {
		return m.catalog.Search(m.term)
	}
	return slices.DeleteFunc(m.catalog.AllowedKPIs(tech), func(k string) bool {
		return !m.catalog.Matches(k, m.term)
	})
}

func (m *Model) refreshRows() {
	keys := m.VisibleKeys()
	rows := make([]table.Row, 0, len(keys))
	for _, k := range keys {
		meta, _ := m.catalog.Metadata(k)
		rows = append(rows, table.Row{
			k,
			m.catalog.DisplayName(k),
			strings.Join(meta.Synonyms, ", "),
			m.technologiesFor(k),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// technologiesFor lists every technology that exposes key.
func (m *Model) technologiesFor(k string) string {
	var names []string
	for _, tech := range m.catalog.Technologies() {
		if slices.Contains(m.catalog.AllowedKPIs(tech), k) {
			names = append(names, tech.String())
		}
	}
	return strings.Join(names, ", ")
}

// SelectedKey returns the key under the table cursor.
func (m *Model) SelectedKey() string {
	if row := m.table.SelectedRow(); len(row) > 0 {
		return row[0]
	}
	return ""
}

func columns(width int) []table.Column {
	keyWidth := min(max(width/4, 20), 36)
	nameWidth := min(max(width/4, 20), 40)
	techWidth := 16
	synWidth := max(width-keyWidth-nameWidth-techWidth-12, 16)

	return []table.Column{
		{Title: "Key", Width: keyWidth},
		{Title: "Name", Width: nameWidth},
		{Title: "Synonyms", Width: synWidth},
		{Title: "Technologies", Width: techWidth},
	}
}

// SetSize sets the available size for the catalog tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-12, 5))
	m.table.SetColumns(columns(width))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.searching {
		return []key.Binding{m.keys.Apply, m.keys.Clear}
	}
	return []key.Binding{m.keys.Technology, m.keys.Search, m.keys.Clear}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Technology},
		{m.keys.Search, m.keys.Apply, m.keys.Clear},
	}
}

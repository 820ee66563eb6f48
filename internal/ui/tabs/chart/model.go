// Package chart provides the chart tab: a line chart and summary cards for one KPI at a time.
package chart

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/kpi-dashboard-tui/internal/app"
	"github.com/j-veylop/kpi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/stats"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/components"
)

// Source selects which series the tab charts.
type Source int

const (
	// SourceResult charts the last query result.
	SourceResult Source = iota
	// SourceRecords charts the watched records file.
	SourceRecords
)

func (s Source) String() string {
	if s == SourceRecords {
		return "records file"
	}
	return "last query"
}

// keyMap defines the key bindings specific to the chart tab.
type keyMap struct {
	NextKPI  key.Binding
	PrevKPI  key.Binding
	FirstKPI key.Binding
	LastKPI  key.Binding
	Source   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextKPI: key.NewBinding(
			key.WithKeys("n", "j"),
			key.WithHelp("j/n", "next KPI"),
		),
		PrevKPI: key.NewBinding(
			key.WithKeys("p", "k"),
			key.WithHelp("k/p", "prev KPI"),
		),
		FirstKPI: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first KPI"),
		),
		LastKPI: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last KPI"),
		),
		Source: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "switch source"),
		),
	}
}

// Model represents the chart tab state.
type Model struct {
	state    *app.State
	catalog  *catalog.Catalog
	spinner  components.Busy
	keys     keyMap
	viewport viewport.Model
	source   Source
	selected int
	width    int
	height   int
}

// New creates the chart tab. A nil catalog means catalog.Default().
func New(state *app.State, cat *catalog.Catalog) *Model {
	if cat == nil {
		cat = catalog.Default()
	}
	m := &Model{
		state:    state,
		catalog:  cat,
		spinner:  components.NewBusy("Loading records..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
	if state.GetLastResult() == nil {
		m.source = SourceRecords
	}
	return m
}

// Init initializes the chart tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the chart tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.QueryCompletedMsg:
		m.source = SourceResult
		m.selected = 0
		m.viewport.GotoTop()

	case app.RecordsUpdatedMsg, app.RecordsLoadedMsg:
		if m.source == SourceRecords || m.state.GetLastResult() == nil {
			m.source = SourceRecords
			m.clampSelection()
		}

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if m.state.IsInitialLoading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := len(m.Keys())

	switch {
	case key.Matches(msg, m.keys.Source):
		m.ToggleSource()
	case key.Matches(msg, m.keys.NextKPI):
		if count > 0 {
			m.selected = (m.selected + 1) % count
		}
	case key.Matches(msg, m.keys.PrevKPI):
		if count > 0 {
			m.selected = (m.selected - 1 + count) % count
		}
	case key.Matches(msg, m.keys.FirstKPI):
		m.selected = 0
	case key.Matches(msg, m.keys.LastKPI):
		m.selected = max(count-1, 0)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// ToggleSource switches between the last query result and the records file.
func (m *Model) ToggleSource() {
	if m.source == SourceResult {
		m.source = SourceRecords
	} else {
		m.source = SourceResult
	}
	m.selected = 0
	m.viewport.GotoTop()
}

// Source returns the series currently charted.
func (m *Model) Source() Source {
	return m.source
}

// Keys returns the KPI keys available from the current source, in order.
func (m *Model) Keys() []string {
	if m.source == SourceRecords {
		return m.state.GetRecordKeys()
	}
	r := m.state.GetLastResult()
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.Summaries))
	for _, s := range r.Summaries {
		keys = append(keys, s.KPI)
	}
	return keys
}

// Selected returns the KPI key being charted, or "" when none is available.
func (m *Model) Selected() string {
	keys := m.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[min(m.selected, len(keys)-1)]
}

// Series returns the sorted series and summary for the selected KPI.
func (m *Model) Series() ([]models.Record, stats.Summary, bool) {
	key := m.Selected()
	if key == "" {
		return nil, stats.Summary{}, false
	}

	var records []models.Record
	if m.source == SourceRecords {
		records = m.state.GetRecords()
	} else if r := m.state.GetLastResult(); r != nil {
		records = r.Records
	}

	series, summary := stats.Summarize(records, key)
	return series, summary, true
}

func (m *Model) clampSelection() {
	if n := len(m.Keys()); m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

// SetSize sets the available size for the chart tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextKPI, m.keys.PrevKPI, m.keys.Source}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextKPI, m.keys.PrevKPI},
		{m.keys.FirstKPI, m.keys.LastKPI},
		{m.keys.Source},
	}
}

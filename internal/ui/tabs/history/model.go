// Package history shows query log totals, per-day volume and the latest queries.
package history

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/kpi-dashboard-tui/internal/app"
	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/components"
)

const (
	recentLimit = 20
	loadingKey  = app.LoadingHistory
)

var errNoSource = errors.New("query log unavailable")

// Source loads query log snapshots. *services.Manager satisfies it.
type Source interface {
	History(tr models.TimeRange, recentLimit int) (*services.HistorySnapshot, error)
}

type keyMap struct {
	ToggleRange key.Binding
	Refresh     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "time range")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// snapshotMsg carries the result of one load. seq identifies the request so
// a slow load for an old range cannot overwrite a newer one.
type snapshotMsg struct {
	seq      int
	snapshot *services.HistorySnapshot
	err      error
}

// Model is the history tab.
type Model struct {
	state    *app.State
	source   Source
	keys     keyMap
	viewport viewport.Model
	rateBar  components.RateBar

	timeRange   models.TimeRange
	seq         int
	loading     bool
	snapshot    *services.HistorySnapshot
	errorMsg    string
	lastRefresh time.Time

	width, height int
}

// New creates the tab; it starts on the last seven days.
func New(state *app.State, src Source) *Model {
	vp := viewport.New(0, 0)
	vp.KeyMap.Left.SetEnabled(false)
	vp.KeyMap.Right.SetEnabled(false)
	return &Model{
		state:     state,
		source:    src,
		keys:      defaultKeyMap(),
		viewport:  vp,
		rateBar:   components.NewRateBar(),
		timeRange: models.TimeRangeWeek,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.reload()
}

func (m *Model) reload() tea.Cmd {
	m.seq++
	m.loading = true
	m.state.SetLoading(loadingKey, true)

	seq, src, tr := m.seq, m.source, m.timeRange
	return func() tea.Msg {
		if src == nil {
			return snapshotMsg{seq: seq, err: errNoSource}
		}
		snapshot, err := src.History(tr, recentLimit)
		return snapshotMsg{seq: seq, snapshot: snapshot, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		return m, m.applySnapshot(msg)

	case app.QueryCompletedMsg, app.QueryFailedMsg:
		// The manager logs a query before publishing its outcome.
		if !m.loading {
			return m, m.reload()
		}

	case app.TabSwitchMsg:
		if msg.Tab == app.TabHistory && m.snapshot == nil && !m.loading {
			return m, m.reload()
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ToggleRange):
			m.timeRange = m.timeRange.Next()
			return m, m.reload()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.reload()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applySnapshot(msg snapshotMsg) tea.Cmd {
	if msg.seq != m.seq {
		return nil
	}
	m.loading = false
	m.state.SetLoading(loadingKey, false)

	if msg.err != nil {
		m.errorMsg = msg.err.Error()
		return app.NotifyErrorCmd("History error: " + m.errorMsg)
	}
	m.snapshot = msg.snapshot
	m.errorMsg = ""
	m.lastRefresh = time.Now()
	return nil
}

// TimeRange returns the range currently shown.
func (m *Model) TimeRange() models.TimeRange {
	return m.timeRange
}

func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width, m.viewport.Height = width, height
}

func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.ToggleRange, m.keys.Refresh}
}

func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRange, m.keys.Refresh},
		{m.viewport.KeyMap.Up, m.viewport.KeyMap.Down},
	}
}

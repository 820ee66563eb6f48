package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/kpi-dashboard-tui/internal/services"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services/kpi"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/styles"
)

// chromeHeight is the navbar plus the margins around tab content.
const chromeHeight = 5

// Model is the root program model.
type Model struct {
	tabs      []Tab
	activeTab TabID

	state    *State
	services *services.Manager
	events   chan services.ServiceEvent

	keymap  KeyMap
	help    help.Model
	spinner spinner.Model

	width, height int
	ready         bool
	showHelp      bool
}

// NewModel creates the root model. mgr may be nil, in which case nothing
// is loaded and no service events arrive.
func NewModel(mgr *services.Manager) *Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	h := help.New()
	h.ShowAll = true

	return &Model{
		tabs:     make([]Tab, len(tabNames)),
		state:    NewState(),
		services: mgr,
		keymap:   DefaultKeyMap(),
		help:     h,
		spinner:  sp,
	}
}

// SetTabs installs the tabs, indexed by TabID.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	m.resizeTabs()
}

func (m *Model) GetState() *State { return m.state }

func (m *Model) GetActiveTab() TabID { return m.activeTab }

// IsReady reports whether the terminal size is known.
func (m *Model) IsReady() bool { return m.ready }

func (m *Model) active() Tab { return m.tab(m.activeTab) }

func (m *Model) tab(id TabID) Tab {
	if id < 0 || int(id) >= len(m.tabs) {
		return nil
	}
	return m.tabs[id]
}

func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Loading records...")

	cmds := []tea.Cmd{m.spinner.Tick, tickCmd()}
	if m.services != nil {
		cmds = append(cmds, subscribeCmd(m.services), loadRecordsCmd(m.services))
	}
	for _, t := range m.tabs {
		if t != nil {
			cmds = append(cmds, t.Init())
		}
	}
	return tea.Batch(cmds...)
}

// Update handles root messages, then forwards msg to the active tab, or to
// every tab for broadcast messages. Consumed global keys are not forwarded.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		m.help.Width = msg.Width
		m.resizeTabs()
	case tea.KeyMsg:
		if consumed, cmd := m.handleKey(msg); consumed {
			return m, cmd
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	default:
		cmds = append(cmds, m.handleMsg(msg))
	}

	if isBroadcast(msg) {
		for i, t := range m.tabs {
			if t == nil {
				continue
			}
			var cmd tea.Cmd
			m.tabs[i], cmd = t.Update(msg)
			cmds = append(cmds, cmd)
		}
	} else if t := m.active(); t != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = t.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		return tickCmd()

	case subscribedMsg:
		m.events = msg.events
		return waitForServiceEventCmd(m.events)

	case ServiceEventMsg:
		cmd := m.handleServiceEvent(msg.Event)
		if m.events != nil {
			cmd = tea.Batch(cmd, waitForServiceEventCmd(m.events))
		}
		return cmd

	case RecordsLoadedMsg:
		m.state.SetRecords(msg.Records, msg.Keys)
		m.setIdle(LoadingInitial)
		return announce(RecordsUpdatedMsg{Count: len(msg.Records)})

	case QueryResultMsg:
		m.setIdle(LoadingQuery)

	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			return expireNotificationCmd(id, msg.Duration)
		}

	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)

	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.resizeTabs()

	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return nil
}

// setIdle clears a loading flag and drops the loading toast once nothing is busy.
func (m *Model) setIdle(resource string) {
	m.state.SetLoading(resource, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

func announce(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.QueryStartedEvent:
		m.state.SetLoading(LoadingQuery, true)
		m.state.SetLoadingNotification(fmt.Sprintf("Querying %s...", e.Descriptor.Technology))

	case services.QueryCompletedEvent:
		m.state.SetLastResult(e.Result)
		m.setIdle(LoadingQuery)
		text := fmt.Sprintf("%d records in %s", len(e.Result.Records), e.Result.Duration.Round(time.Millisecond))
		return tea.Batch(NotifySuccessCmd(text), announce(QueryCompletedMsg{Result: e.Result}))

	case services.QueryFailedEvent:
		m.setIdle(LoadingQuery)
		notify := NotifyErrorCmd(e.Error.Error())
		if kpi.IsCanceled(e.Error) {
			notify = NotifyInfoCmd("Query canceled")
		}
		return tea.Batch(notify, announce(QueryFailedMsg{Err: e.Error}))

	case services.RecordsChangedEvent:
		m.state.SetRecords(e.Records, e.Keys)
		return tea.Batch(
			NotifyInfoCmd(fmt.Sprintf("Records file reloaded (%d records)", len(e.Records))),
			announce(RecordsUpdatedMsg{Count: len(e.Records)}),
		)

	case services.AlertEvent:
		return NotifyWarningCmd(e.Body)

	case services.ErrorEvent:
		return NotifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	return nil
}

func (m *Model) resizeTabs() {
	if m.width == 0 && m.height == 0 {
		return
	}
	for _, t := range m.tabs {
		if t != nil {
			t.SetSize(m.width, max(0, m.height-chromeHeight))
		}
	}
}

// switchTab activates a tab and announces it with a TabSwitchMsg.
func (m *Model) switchTab(id TabID) tea.Cmd {
	m.activeTab = id
	m.resizeTabs()
	return announce(TabSwitchMsg{Tab: id})
}

// handleKey applies global bindings and reports whether the key was consumed.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return true, tea.Quit
	}
	if c, ok := m.active().(InputCapturer); ok && c.CapturesInput() {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return true, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return true, nil
	case key.Matches(msg, m.keymap.Escape) && m.showHelp:
		m.showHelp = false
		return true, nil
	case m.showHelp:
		return false, nil
	}

	n := len(m.tabs)
	if id, ok := m.keymap.tabFor(msg); ok && int(id) < n {
		return true, m.switchTab(id)
	}
	switch {
	case key.Matches(msg, m.keymap.NextTab):
		return true, m.switchTab(TabID((int(m.activeTab) + 1) % n))
	case key.Matches(msg, m.keymap.PrevTab):
		return true, m.switchTab(TabID((int(m.activeTab) + n - 1) % n))
	}
	return false, nil
}

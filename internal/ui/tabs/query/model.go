// Package query provides the query tab: a form that builds and runs a KPI query.
package query

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/kpi-dashboard-tui/internal/app"
	"github.com/j-veylop/kpi-dashboard-tui/internal/catalog"
	kpiquery "github.com/j-veylop/kpi-dashboard-tui/internal/query"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/components"
)

// Form fields in display order.
const (
	fieldTechnology = iota
	fieldStartDate
	fieldEndDate
	fieldElement
	fieldSite
	fieldKPIs
	fieldLimit
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Technology", "Start date", "End date", "Element", "Site", "KPIs", "Limit",
}

const dateLayout = "2006-01-02"

// keyMap defines the key bindings specific to the query tab.
type keyMap struct {
	Edit   key.Binding
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e/enter", "edit form"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run query"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel query / leave form"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous field"),
		),
	}
}

// Model represents the query tab state.
type Model struct {
	state   *app.State
	runner  app.QueryRunner
	catalog *catalog.Catalog
	keys    keyMap
	spinner components.Busy

	inputs  []textinput.Model
	focus   int
	editing bool

	running bool
	cancel  context.CancelFunc

	// fieldErrors holds the validation message shown next to each field.
	fieldErrors [fieldCount]string
	formError   string
	lastErr     error
	result      *services.QueryResult

	width  int
	height int
}

// New creates the query tab. A nil catalog means catalog.Default().
func New(state *app.State, runner app.QueryRunner, cat *catalog.Catalog) *Model {
	if cat == nil {
		cat = catalog.Default()
	}

	m := &Model{
		state:   state,
		runner:  runner,
		catalog: cat,
		keys:    defaultKeyMap(),
		spinner: components.NewBusy("Running query..."),
		inputs:  make([]textinput.Model, fieldCount),
	}

	now := time.Now()
	defaults := [fieldCount]string{
		fieldTechnology: catalog.GSM.String(),
		fieldStartDate:  now.AddDate(0, 0, -7).Format(dateLayout),
		fieldEndDate:    now.Format(dateLayout),
	}
	placeholders := [fieldCount]string{
		fieldTechnology: "gsm | umts | lmbb",
		fieldStartDate:  "YYYY-MM-DD",
		fieldEndDate:    "YYYY-MM-DD",
		fieldElement:    "element substring",
		fieldSite:       "site substring",
		fieldKPIs:       "dcr, erlang",
		fieldLimit:      "optional row limit",
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		ti.Placeholder = placeholders[i]
		ti.SetValue(defaults[i])
		m.inputs[i] = ti
	}

	return m
}

// Init initializes the query tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// CapturesInput reports whether a form field currently owns the keyboard.
func (m *Model) CapturesInput() bool {
	return m.editing
}

// Running reports whether a query is in flight.
func (m *Model) Running() bool {
	return m.running
}

// SetValue fills a form field; used to prefill the form.
func (m *Model) SetValue(field int, value string) {
	if field >= 0 && field < fieldCount {
		m.inputs[field].SetValue(value)
	}
}

// Update handles messages for the query tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.QueryResultMsg:
		return m, m.handleResult(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	default:
		if m.running {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		switch {
		case m.running:
			m.cancelQuery()
		case m.editing:
			m.setEditing(false)
		}
		return m, nil
	}

	if !m.editing {
		if key.Matches(msg, m.keys.Edit) {
			return m, m.setEditing(true)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()

	case key.Matches(msg, m.keys.Next):
		return m, m.focusField((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.Prev):
		return m, m.focusField((m.focus - 1 + fieldCount) % fieldCount)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setEditing(on bool) tea.Cmd {
	m.editing = on
	if !on {
		m.inputs[m.focus].Blur()
		return nil
	}
	return m.inputs[m.focus].Focus()
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// Candidate assembles the form into an unvalidated query. The only local
// check is that the limit parses as a number; everything else is left to
// the builder so the messages match the other surfaces.
func (m *Model) Candidate() (kpiquery.Candidate, error) {
	c := kpiquery.Candidate{
		Technology: strings.TrimSpace(m.inputs[fieldTechnology].Value()),
		StartDate:  strings.TrimSpace(m.inputs[fieldStartDate].Value()),
		EndDate:    strings.TrimSpace(m.inputs[fieldEndDate].Value()),
		Element:    strings.TrimSpace(m.inputs[fieldElement].Value()),
		Site:       strings.TrimSpace(m.inputs[fieldSite].Value()),
		KPI:        splitKPIs(m.inputs[fieldKPIs].Value()),
	}

	if raw := strings.TrimSpace(m.inputs[fieldLimit].Value()); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c, &kpiquery.ValidationError{Field: "limit", Message: "must be a number"}
		}
		c.Limit = &v
	}

	return c, nil
}

func splitKPIs(raw string) []string {
	var keys []string
	for part := range strings.SplitSeq(raw, ",") {
		if k := strings.TrimSpace(part); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (m *Model) submit() tea.Cmd {
	if m.running {
		return nil
	}

	m.clearErrors()
	c, err := m.Candidate()
	if err != nil {
		return m.showError(err)
	}
	if m.runner == nil {
		m.formError = "query service unavailable"
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.setEditing(false)

	return tea.Batch(
		app.RunQueryCmd(ctx, m.runner, c),
		m.spinner.Start(),
	)
}

func (m *Model) cancelQuery() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Model) handleResult(msg app.QueryResultMsg) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.running = false

	if msg.Err != nil {
		return m.showError(msg.Err)
	}

	m.clearErrors()
	m.result = msg.Result
	return nil
}

func (m *Model) clearErrors() {
	m.fieldErrors = [fieldCount]string{}
	m.formError = ""
	m.lastErr = nil
}

// showError places a validation message next to its field, or records a
// form-level error for execution failures. While editing, the failing
// field also takes keyboard focus.
func (m *Model) showError(err error) tea.Cmd {
	m.lastErr = err

	var verr *kpiquery.ValidationError
	if !errors.As(err, &verr) {
		m.formError = err.Error()
		return nil
	}

	i, ok := fieldIndex(verr.Field)
	if !ok {
		m.formError = verr.Error()
		return nil
	}
	m.fieldErrors[i] = verr.Message
	if m.editing {
		return m.focusField(i)
	}
	m.focus = i
	return nil
}

// fieldIndex maps a validation field path to a form field. "kpi.N" maps to the KPI list.
func fieldIndex(field string) (int, bool) {
	switch {
	case field == "technology":
		return fieldTechnology, true
	case field == "start_date":
		return fieldStartDate, true
	case field == "end_date":
		return fieldEndDate, true
	case field == "element" || field == "site":
		return fieldElement, true
	case field == "kpi" || strings.HasPrefix(field, "kpi."):
		return fieldKPIs, true
	case field == "limit":
		return fieldLimit, true
	}
	return 0, false
}

// SetSize sets the available size for the query tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		m.inputs[i].Width = max(min(width-30, 60), 20)
	}
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Edit, m.keys.Submit, m.keys.Cancel, m.keys.Next, m.keys.Prev}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Edit, m.keys.Submit, m.keys.Cancel},
		{m.keys.Next, m.keys.Prev},
	}
}

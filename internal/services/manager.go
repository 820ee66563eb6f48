// Package services provides service orchestration for the TUI and the HTTP surface.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/google/uuid"

	"github.com/j-veylop/kpi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/kpi-dashboard-tui/internal/config"
	"github.com/j-veylop/kpi-dashboard-tui/internal/db"
	"github.com/j-veylop/kpi-dashboard-tui/internal/logger"
	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/query"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services/kpi"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services/records"
	"github.com/j-veylop/kpi-dashboard-tui/internal/stats"
	"github.com/j-veylop/kpi-dashboard-tui/internal/tool"
)

type (
	// QueryStartedEvent is emitted when a query passes validation and is sent.
	QueryStartedEvent struct {
		Descriptor *query.Descriptor
		ID         string
	}

	// QueryCompletedEvent is emitted when a query returns records.
	QueryCompletedEvent struct {
		Result *QueryResult
	}

	// QueryFailedEvent is emitted when a query fails validation or execution.
	QueryFailedEvent struct {
		Error   error
		ID      string
		Outcome models.Outcome
	}

	// RecordsChangedEvent is emitted when the records file is (re)loaded.
	RecordsChangedEvent struct {
		Records []models.Record
		Keys    []string
	}

	// AlertEvent is emitted when a KPI moved more than the configured threshold.
	AlertEvent struct {
		Summary stats.Summary
		Title   string
		Body    string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (QueryStartedEvent) isServiceEvent()   {}
func (QueryCompletedEvent) isServiceEvent() {}
func (QueryFailedEvent) isServiceEvent()    {}
func (RecordsChangedEvent) isServiceEvent() {}
func (AlertEvent) isServiceEvent()          {}
func (ErrorEvent) isServiceEvent()          {}

// QueryResult is a completed query with one summary per distinct requested KPI.
type QueryResult struct {
	Descriptor *query.Descriptor
	ID         string
	Records    []models.Record
	Summaries  []stats.Summary
	Duration   time.Duration
}

// Summary returns the summary for key, if it was requested.
func (r *QueryResult) Summary(key string) (stats.Summary, bool) {
	for _, s := range r.Summaries {
		if s.KPI == key {
			return s, true
		}
	}
	return stats.Summary{}, false
}

// HistorySnapshot bundles the query log views shown in the history tab.
type HistorySnapshot struct {
	Stats     *models.QueryStats
	Daily     []models.DailyQueryCount
	Recent    []models.QueryLogEntry
	TimeRange models.TimeRange
}

// Notifier sends a desktop notification.
type Notifier func(title, body string) error

func beeepNotifier(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Option customizes a Manager.
type Option func(*Manager)

// WithHTTPClient sets the HTTP client used for KPI API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// WithNotifier replaces the desktop notifier.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notify = n }
}

// Manager orchestrates services and event routing.
type Manager struct {
	cfg         *config.Config
	catalog     *catalog.Catalog
	builder     *query.Builder
	client      *kpi.Client
	tool        *tool.GetKPI
	records     *records.Service
	database    *db.DB
	httpClient  *http.Client
	notify      Notifier
	stopChan    chan struct{}
	subscribers []chan ServiceEvent
	mu          sync.RWMutex
	closeOnce   sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		catalog:   catalog.Default(),
		notify:    beeepNotifier,
		stopChan:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.builder = query.NewBuilder(m.catalog)
	m.client = kpi.NewClient(cfg.KPIAPIURL, m.httpClient)
	m.tool = tool.NewGetKPI(m.builder, m.client)

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.QueryLogRetention > 0 {
		if removed, err := m.database.PruneQueryLog(cfg.QueryLogRetention); err != nil {
			logger.Warn("query log prune failed", "error", err)
		} else if removed > 0 {
			logger.Info("pruned query log", "removed", removed)
			if err := m.database.Vacuum(); err != nil {
				logger.Warn("query log vacuum failed", "error", err)
			}
		}
	}

	m.records, err = records.New(cfg.RecordsPath)
	if err != nil {
		_ = m.database.Close()
		return nil, fmt.Errorf("failed to initialize records source: %w", err)
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from the records source to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.records.Events():
			m.handleRecordsEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleRecordsEvent(event records.Event) {
	switch event.Type {
	case records.EventRecordsLoaded, records.EventRecordsChanged:
		m.broadcast(RecordsChangedEvent{
			Records: m.records.Records(),
			Keys:    m.records.KPIKeys(),
		})

	case records.EventError:
		m.broadcast(ErrorEvent{
			Service: "records",
			Error:   event.Error,
		})
	}
}

// RunQuery validates and executes a candidate, logs the outcome and broadcasts the result.
func (m *Manager) RunQuery(ctx context.Context, c query.Candidate) (*QueryResult, error) {
	id := uuid.NewString()
	start := time.Now()

	d, err := m.builder.Build(c)
	if err != nil {
		m.finish(id, candidateEntry(c), start, 0, err)
		return nil, err
	}

	m.broadcast(QueryStartedEvent{ID: id, Descriptor: d})

	recs, err := m.client.Execute(ctx, d)
	if err != nil {
		m.finish(id, descriptorEntry(d), start, 0, err)
		return nil, err
	}

	result := &QueryResult{
		ID:         id,
		Descriptor: d,
		Duration:   time.Since(start),
	}
	for _, key := range distinct(d.KPIs) {
		series, summary := stats.Summarize(recs, key)
		if result.Records == nil {
			result.Records = series
		}
		result.Summaries = append(result.Summaries, summary)
	}

	m.finish(id, descriptorEntry(d), start, len(recs), nil)
	m.broadcast(QueryCompletedEvent{Result: result})
	m.checkAlerts(d, result.Summaries)

	return result, nil
}

// CallTool runs the getKPI tool with raw JSON arguments and logs the call.
func (m *Manager) CallTool(ctx context.Context, args json.RawMessage) (any, error) {
	id := uuid.NewString()
	start := time.Now()

	c, err := tool.DecodeArgs(args)
	if err != nil {
		m.finish(id, &models.QueryLogEntry{}, start, 0, err)
		return nil, err
	}

	out, err := m.tool.CallCandidate(ctx, c)
	count := 0
	if rows, ok := out.([]any); ok {
		count = len(rows)
	}
	m.finish(id, candidateEntry(c), start, count, err)

	return out, err
}

// finish writes the query log entry and, on failure, broadcasts the failure.
func (m *Manager) finish(id string, entry *models.QueryLogEntry, start time.Time, count int, err error) {
	entry.ID = id
	entry.Timestamp = start
	entry.DurationMs = int(time.Since(start).Milliseconds())
	entry.RecordCount = count
	entry.Outcome, entry.StatusCode = classify(err)
	if err != nil {
		entry.Error = err.Error()
	}

	if dbErr := m.database.InsertQueryLog(entry); dbErr != nil {
		logger.Error("failed to log query", "id", id, "error", dbErr)
	}

	if err != nil {
		logger.Warn("query failed", "id", id, "outcome", entry.Outcome, "error", err)
		m.broadcast(QueryFailedEvent{ID: id, Outcome: entry.Outcome, Error: err})
	} else {
		logger.Info("query completed", "id", id, "records", count, "duration_ms", entry.DurationMs)
	}
}

// classify maps an error to its logged outcome and HTTP status code.
func classify(err error) (models.Outcome, int) {
	if err == nil {
		return models.OutcomeOK, http.StatusOK
	}

	var verr *query.ValidationError
	if errors.As(err, &verr) {
		return models.OutcomeValidation, 0
	}

	var execErr *kpi.ExecutionError
	if errors.As(err, &execErr) {
		switch execErr.Kind {
		case kpi.KindStatus:
			return models.OutcomeHTTP, execErr.StatusCode
		case kpi.KindCanceled:
			return models.OutcomeCanceled, 0
		case kpi.KindParse:
			return models.OutcomeParse, http.StatusOK
		default:
			return models.OutcomeTransport, 0
		}
	}

	if errors.Is(err, context.Canceled) {
		return models.OutcomeCanceled, 0
	}
	return models.OutcomeTransport, 0
}

func candidateEntry(c query.Candidate) *models.QueryLogEntry {
	entry := &models.QueryLogEntry{
		Technology: c.Technology,
		StartDate:  c.StartDate,
		EndDate:    c.EndDate,
		Element:    c.Element,
		Site:       c.Site,
		KPIs:       slices.Clone(c.KPI),
	}
	if c.Limit != nil && *c.Limit == math.Trunc(*c.Limit) && *c.Limit > 0 && *c.Limit <= math.MaxInt32 {
		entry.Limit = int(*c.Limit)
	}
	return entry
}

func descriptorEntry(d *query.Descriptor) *models.QueryLogEntry {
	return &models.QueryLogEntry{
		Technology: d.Technology.String(),
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		Element:    d.Element,
		Site:       d.Site,
		KPIs:       slices.Clone(d.KPIs),
		Limit:      d.Limit,
	}
}

func distinct(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// checkAlerts notifies for every summary whose change crossed the threshold.
func (m *Manager) checkAlerts(d *query.Descriptor, summaries []stats.Summary) {
	if !m.cfg.AlertsEnabled() {
		return
	}

	scope := d.Element
	if scope == "" {
		scope = d.Site
	}

	for _, s := range summaries {
		if s.Count < 2 || math.Abs(s.ChangePercent) < m.cfg.AlertChangePercent {
			continue
		}

		title := fmt.Sprintf("KPI change: %s", m.catalog.DisplayName(s.KPI))
		body := fmt.Sprintf("%s %s %s (%s to %s, %s)",
			d.Technology, scope, stats.FormatChange(s),
			stats.FormatValue(s.First), stats.FormatValue(s.Current), s.RangeLabel)

		if err := m.notify(title, body); err != nil {
			logger.Debug("desktop notification failed", "error", err)
		}
		m.broadcast(AlertEvent{Summary: s, Title: title, Body: body})
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd that waits for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// History returns the query log views for a time range.
func (m *Manager) History(tr models.TimeRange, recentLimit int) (*HistorySnapshot, error) {
	queryStats, err := m.database.GetQueryStats(tr)
	if err != nil {
		return nil, err
	}
	daily, err := m.database.GetDailyQueryCounts(tr)
	if err != nil {
		return nil, err
	}
	recent, err := m.database.GetRecentQueries(recentLimit)
	if err != nil {
		return nil, err
	}

	return &HistorySnapshot{
		Stats:     queryStats,
		Daily:     daily,
		Recent:    recent,
		TimeRange: tr,
	}, nil
}

// SummarizeRecords summarizes the records file for key.
func (m *Manager) SummarizeRecords(key string) ([]models.Record, stats.Summary) {
	return stats.Summarize(m.records.Records(), key)
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Catalog returns the KPI catalog.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// Records returns the records file source.
func (m *Manager) Records() *records.Service {
	return m.records
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services. It is safe to call more than once.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.records.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	})

	return errors.Join(errs...)
}

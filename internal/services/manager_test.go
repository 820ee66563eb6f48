package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/kpi-dashboard-tui/internal/config"
	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/query"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services/kpi"
)

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingNotifier) notify(title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

func newTestManager(t *testing.T, handler http.HandlerFunc, alertPercent float64) (*Manager, *recordingNotifier, *config.Config) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tmpDir := t.TempDir()
	cfg := &config.Config{
		KPIAPIURL:          srv.URL,
		DatabasePath:       filepath.Join(tmpDir, "test.db"),
		RecordsPath:        filepath.Join(tmpDir, "records.json"),
		AlertChangePercent: alertPercent,
	}

	n := &recordingNotifier{}
	mgr, err := NewManager(cfg, WithHTTPClient(srv.Client()), WithNotifier(n.notify))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	return mgr, n, cfg
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func limit(f float64) *float64 { return &f }

func validCandidate() query.Candidate {
	return query.Candidate{
		Technology: "gsm",
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-03",
		Element:    "BTS_01",
		KPI:        []string{"dcr", "erlang", "dcr"},
		Limit:      limit(10),
	}
}

const seriesBody = `[
	{"time":"2024-01-03","dcr":1.5,"erlang":40},
	{"time":"2024-01-01","dcr":1.0,"erlang":40},
	{"time":"2024-01-02","dcr":1.2,"erlang":41}
]`

func TestNewManager(t *testing.T) {
	mgr, _, _ := newTestManager(t, jsonHandler(`[]`), 20)

	if mgr.Database() == nil {
		t.Error("Database should be initialized")
	}
	if mgr.Records() == nil {
		t.Error("Records service should be initialized")
	}
	if mgr.tool == nil || mgr.tool.Name() != "getKPI" {
		t.Error("Tool should be initialized")
	}
	if mgr.Catalog() == nil {
		t.Error("Catalog should be initialized")
	}
}

func TestRunQuery_Success(t *testing.T) {
	mgr, n, _ := newTestManager(t, jsonHandler(seriesBody), 20)

	result, err := mgr.RunQuery(context.Background(), validCandidate())
	if err != nil {
		t.Fatalf("RunQuery() error = %v", err)
	}

	if len(result.Summaries) != 2 {
		t.Fatalf("len(Summaries) = %d, want 2 (duplicates collapsed)", len(result.Summaries))
	}
	if result.Records[0].TimeString() != "2024-01-01" {
		t.Errorf("Records not sorted: first = %s", result.Records[0].TimeString())
	}

	dcr, ok := result.Summary("dcr")
	if !ok {
		t.Fatal("Summary(dcr) missing")
	}
	if dcr.ChangePercent != 50 {
		t.Errorf("dcr ChangePercent = %v, want 50", dcr.ChangePercent)
	}

	// dcr moved 50%, erlang 0%: exactly one alert.
	if n.count() != 1 {
		t.Errorf("notifications = %d, want 1", n.count())
	}

	entries, err := mgr.Database().GetRecentQueries(10)
	if err != nil {
		t.Fatalf("GetRecentQueries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("logged %d queries, want 1", len(entries))
	}
	e := entries[0]
	if e.ID != result.ID || e.Outcome != models.OutcomeOK || e.RecordCount != 3 || e.Limit != 10 {
		t.Errorf("log entry = %+v", e)
	}
}

func TestRunQuery_AlertsDisabled(t *testing.T) {
	mgr, n, _ := newTestManager(t, jsonHandler(seriesBody), 0)

	if _, err := mgr.RunQuery(context.Background(), validCandidate()); err != nil {
		t.Fatalf("RunQuery() error = %v", err)
	}
	if n.count() != 0 {
		t.Errorf("notifications = %d, want 0 when disabled", n.count())
	}
}

func TestRunQuery_ValidationLogged(t *testing.T) {
	var calls int
	mgr, _, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.WriteString(w, `[]`)
	}, 20)

	c := validCandidate()
	c.KPI = nil

	_, err := mgr.RunQuery(context.Background(), c)

	var verr *query.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("RunQuery() error = %v, want validation error", err)
	}
	if calls != 0 {
		t.Errorf("API called %d times for an invalid query", calls)
	}

	entries, _ := mgr.Database().GetRecentQueries(10)
	if len(entries) != 1 || entries[0].Outcome != models.OutcomeValidation {
		t.Errorf("log = %+v, want one validation entry", entries)
	}
}

func TestRunQuery_StatusErrorLogged(t *testing.T) {
	mgr, _, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}, 20)

	_, err := mgr.RunQuery(context.Background(), validCandidate())

	var execErr *kpi.ExecutionError
	if !errors.As(err, &execErr) || execErr.Kind != kpi.KindStatus {
		t.Fatalf("RunQuery() error = %v, want status error", err)
	}

	entries, _ := mgr.Database().GetRecentQueries(10)
	if len(entries) != 1 || entries[0].Outcome != models.OutcomeHTTP || entries[0].StatusCode != 502 {
		t.Errorf("log = %+v, want one http entry with status 502", entries)
	}
}

func TestRunQuery_Canceled(t *testing.T) {
	mgr, _, _ := newTestManager(t, jsonHandler(`[]`), 20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mgr.RunQuery(ctx, validCandidate())
	if !kpi.IsCanceled(err) {
		t.Fatalf("RunQuery() error = %v, want canceled", err)
	}

	entries, _ := mgr.Database().GetRecentQueries(10)
	if len(entries) != 1 || entries[0].Outcome != models.OutcomeCanceled {
		t.Errorf("log = %+v, want one canceled entry", entries)
	}
}

func TestRunQuery_BroadcastsEvents(t *testing.T) {
	mgr, _, _ := newTestManager(t, jsonHandler(seriesBody), 0)

	ch, _ := mgr.Subscribe()

	if _, err := mgr.RunQuery(context.Background(), validCandidate()); err != nil {
		t.Fatalf("RunQuery() error = %v", err)
	}

	var started, completed bool
	timeout := time.After(2 * time.Second)
	for !(started && completed) {
		select {
		case ev := <-ch:
			switch ev.(type) {
			case QueryStartedEvent:
				started = true
			case QueryCompletedEvent:
				completed = true
			}
		case <-timeout:
			t.Fatalf("started=%v completed=%v", started, completed)
		}
	}
}

func TestCallTool(t *testing.T) {
	mgr, _, _ := newTestManager(t, jsonHandler(seriesBody), 0)

	args, _ := json.Marshal(validCandidate())
	out, err := mgr.CallTool(context.Background(), args)
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if rows, ok := out.([]any); !ok || len(rows) != 3 {
		t.Errorf("CallTool() = %#v, want 3 rows", out)
	}

	entries, _ := mgr.Database().GetRecentQueries(10)
	if len(entries) != 1 || entries[0].RecordCount != 3 {
		t.Errorf("log = %+v, want one entry with 3 records", entries)
	}
}

func TestCallTool_MalformedArgs(t *testing.T) {
	mgr, _, _ := newTestManager(t, jsonHandler(`[]`), 0)

	_, err := mgr.CallTool(context.Background(), json.RawMessage(`{`))

	var verr *query.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CallTool() error = %v, want validation error", err)
	}
}

func TestRecordsChangedEvent(t *testing.T) {
	mgr, _, cfg := newTestManager(t, jsonHandler(`[]`), 0)
	ch, _ := mgr.Subscribe()

	content := `[{"time":"2024-01-01","dcr":1},{"time":"2024-01-02","dcr":3}]`
	if err := os.WriteFile(cfg.RecordsPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-ch:
			if rc, ok := ev.(RecordsChangedEvent); ok && len(rc.Records) == 2 {
				if len(rc.Keys) != 1 || rc.Keys[0] != "dcr" {
					t.Errorf("Keys = %v, want [dcr]", rc.Keys)
				}
				_, s := mgr.SummarizeRecords("dcr")
				if s.Average != 2 {
					t.Errorf("Average = %v, want 2", s.Average)
				}
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for RecordsChangedEvent")
		}
	}
}

func TestHistory(t *testing.T) {
	mgr, _, _ := newTestManager(t, jsonHandler(seriesBody), 0)

	if _, err := mgr.RunQuery(context.Background(), validCandidate()); err != nil {
		t.Fatalf("RunQuery() error = %v", err)
	}
	bad := validCandidate()
	bad.Technology = "5g"
	_, _ = mgr.RunQuery(context.Background(), bad)

	h, err := mgr.History(models.TimeRangeDay, 5)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if h.Stats.TotalQueries != 2 || h.Stats.FailedQueries != 1 {
		t.Errorf("Stats = %+v", h.Stats)
	}
	if len(h.Recent) != 2 || len(h.Daily) != 1 {
		t.Errorf("Recent/Daily = %d/%d", len(h.Recent), len(h.Daily))
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr, _, _ := newTestManager(t, jsonHandler(`[]`), 0)

	ch, cmd := mgr.Subscribe()
	if ch == nil || cmd == nil {
		t.Fatal("Subscribe returned nil")
	}

	mgr.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("Channel should be closed")
	}
	if msg := WaitForEvent(ch)(); msg != nil {
		t.Errorf("WaitForEvent on closed channel = %v, want nil", msg)
	}
}

func TestBroadcast_FansOutToEverySubscriber(t *testing.T) {
	mgr, _, _ := newTestManager(t, jsonHandler(`[]`), 0)

	a, _ := mgr.Subscribe()
	b, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(a)
	defer mgr.Unsubscribe(b)

	// More events than any buffer holds; draining as we go keeps every one.
	for i := range 150 {
		mgr.broadcast(ErrorEvent{Service: "records", Error: fmt.Errorf("event %d", i)})
		for _, ch := range []chan ServiceEvent{a, b} {
			if got := nextErrorEvent(ch); got != fmt.Sprintf("event %d", i) {
				t.Fatalf("subscriber got %q, want event %d", got, i)
			}
		}
	}
}

// nextErrorEvent returns the message of the next buffered ErrorEvent,
// skipping records events from the watcher, or "" if none is buffered.
func nextErrorEvent(ch chan ServiceEvent) string {
	for {
		select {
		case ev := <-ch:
			if e, ok := ev.(ErrorEvent); ok {
				return e.Error.Error()
			}
		default:
			return ""
		}
	}
}

func TestManager_CloseTwice(t *testing.T) {
	mgr, _, _ := newTestManager(t, jsonHandler(`[]`), 0)

	if err := mgr.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       models.Outcome
		wantStatus int
	}{
		{"Nil", nil, models.OutcomeOK, 200},
		{"Validation", &query.ValidationError{Field: "kpi"}, models.OutcomeValidation, 0},
		{"Status", &kpi.ExecutionError{Kind: kpi.KindStatus, StatusCode: 404}, models.OutcomeHTTP, 404},
		{"Transport", &kpi.ExecutionError{Kind: kpi.KindTransport}, models.OutcomeTransport, 0},
		{"Canceled", &kpi.ExecutionError{Kind: kpi.KindCanceled}, models.OutcomeCanceled, 0},
		{"Parse", &kpi.ExecutionError{Kind: kpi.KindParse}, models.OutcomeParse, 200},
		{"BareCancel", context.Canceled, models.OutcomeCanceled, 0},
		{"Other", errors.New("x"), models.OutcomeTransport, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := classify(tt.err)
			if got != tt.want || status != tt.wantStatus {
				t.Errorf("classify() = %s/%d, want %s/%d", got, status, tt.want, tt.wantStatus)
			}
		})
	}
}

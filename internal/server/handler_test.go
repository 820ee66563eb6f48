package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/j-veylop/kpi-dashboard-tui/internal/query"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services/kpi"
)

type fakeTool struct {
	out  any
	err  error
	args json.RawMessage
}

func (f *fakeTool) CallTool(ctx context.Context, args json.RawMessage) (any, error) {
	f.args = args
	return f.out, f.err
}

func newTestRouter(ft *fakeTool) http.Handler {
	return Routes(NewHandler(ft, nil))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not a JSON object: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(&fakeTool{}), http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := decode(t, rec)["status"]; got != "ok" {
		t.Errorf("status field = %v, want ok", got)
	}
}

func TestCatalog(t *testing.T) {
	rec := do(t, newTestRouter(&fakeTool{}), http.MethodGet, "/catalog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var out []technologyView
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(out) != 3 || out[0].Technology != "gsm" || out[2].Technology != "lmbb" {
		t.Fatalf("catalog = %+v", out)
	}
	if out[0].KPIs[0].Key != "erlang" || out[0].KPIs[0].DisplayName != "Erlang Traffic" {
		t.Errorf("first gsm KPI = %+v", out[0].KPIs[0])
	}
}

func TestTechnology(t *testing.T) {
	h := newTestRouter(&fakeTool{})

	rec := do(t, h, http.MethodGet, "/catalog/umts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var view technologyView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if view.Technology != "umts" || len(view.KPIs) != 10 {
		t.Errorf("view = %s with %d KPIs", view.Technology, len(view.KPIs))
	}

	rec = do(t, h, http.MethodGet, "/catalog/5g", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown technology status = %d, want 404", rec.Code)
	}
	if msg, _ := decode(t, rec)["error"].(string); !strings.Contains(msg, "5g") {
		t.Errorf("error = %q", msg)
	}
}

func TestGetKPI_Success(t *testing.T) {
	ft := &fakeTool{out: []any{map[string]any{"time": "2024-01-01", "dcr": 1.5}}}
	args := `{"technology":"gsm","start_date":"2024-01-01","end_date":"2024-01-02","element":"B","kpi":["dcr"]}`

	rec := do(t, newTestRouter(ft), http.MethodPost, "/tools/getKPI", args)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if string(ft.args) != args {
		t.Errorf("tool args = %s, want passthrough", ft.args)
	}

	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(out) != 1 || out[0]["dcr"] != 1.5 {
		t.Errorf("body = %v", out)
	}
}

func TestGetKPI_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKeys   []string
	}{
		{
			name:       "Validation",
			err:        &query.ValidationError{Field: "kpi", Message: "You must request at least one KPI"},
			wantStatus: http.StatusBadRequest,
			wantKeys:   []string{"error", "field"},
		},
		{
			name:       "UpstreamStatus",
			err:        &kpi.ExecutionError{Kind: kpi.KindStatus, StatusCode: 503, Body: "down"},
			wantStatus: http.StatusBadGateway,
			wantKeys:   []string{"error", "status", "body"},
		},
		{
			name:       "Transport",
			err:        &kpi.ExecutionError{Kind: kpi.KindTransport, Err: errors.New("connection refused")},
			wantStatus: http.StatusBadGateway,
			wantKeys:   []string{"error"},
		},
		{
			name:       "Parse",
			err:        &kpi.ExecutionError{Kind: kpi.KindParse, Err: errors.New("bad json")},
			wantStatus: http.StatusBadGateway,
			wantKeys:   []string{"error"},
		},
		{
			name:       "Canceled",
			err:        &kpi.ExecutionError{Kind: kpi.KindCanceled, Err: context.Canceled},
			wantStatus: statusClientClosedRequest,
			wantKeys:   []string{"error"},
		},
		{
			name:       "Unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantKeys:   []string{"error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(&fakeTool{err: tt.err}), http.MethodPost, "/tools/getKPI", `{}`)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decode(t, rec)
			for _, key := range tt.wantKeys {
				if _, ok := body[key]; !ok {
					t.Errorf("response %v missing %q", body, key)
				}
			}
		})
	}
}

func TestGetKPI_StatusBody(t *testing.T) {
	err := &kpi.ExecutionError{Kind: kpi.KindStatus, StatusCode: 404, Body: "no table"}
	rec := do(t, newTestRouter(&fakeTool{err: err}), http.MethodPost, "/tools/getKPI", `{}`)

	body := decode(t, rec)
	if body["status"] != float64(404) || body["body"] != "no table" {
		t.Errorf("body = %v", body)
	}
}

func TestStats(t *testing.T) {
	payload := `{"kpi":"x","records":[
		{"time":"2024-01-03","x":9},
		{"time":"2024-01-01","x":3},
		{"time":"2024-01-02","x":6}
	]}`

	rec := do(t, newTestRouter(&fakeTool{}), http.MethodPost, "/stats", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	var out struct {
		Series  []map[string]any `json:"series"`
		Summary struct {
			Count   int     `json:"count"`
			Average float64 `json:"average"`
			Current float64 `json:"current"`
		} `json:"summary"`
		Trend string `json:"trend"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(out.Series) != 3 || out.Series[0]["time"] != "2024-01-01" {
		t.Errorf("series not sorted: %v", out.Series)
	}
	if out.Summary.Count != 3 || out.Summary.Average != 6 || out.Summary.Current != 9 {
		t.Errorf("summary = %+v", out.Summary)
	}
	if out.Trend != "up" {
		t.Errorf("trend = %q, want up", out.Trend)
	}
}

func TestStats_Empty(t *testing.T) {
	rec := do(t, newTestRouter(&fakeTool{}), http.MethodPost, "/stats", `{"kpi":"x","records":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode(t, rec)
	if series, ok := body["series"].([]any); !ok || len(series) != 0 {
		t.Errorf("series = %v, want []", body["series"])
	}
}

func TestStats_BadRequest(t *testing.T) {
	h := newTestRouter(&fakeTool{})

	for name, payload := range map[string]string{
		"Malformed":  `{"kpi":`,
		"MissingKPI": `{"records":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/stats", payload)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	rec := do(t, newTestRouter(&fakeTool{}), http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

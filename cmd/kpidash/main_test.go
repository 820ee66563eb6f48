package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j-veylop/kpi-dashboard-tui/internal/query"
)

func setEnv(t *testing.T, apiURL string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("KPI_API_URL", apiURL)
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "queries.db"))
	t.Setenv("RECORDS_PATH", "")
	t.Setenv("ALERT_CHANGE_PERCENT", "0")
	t.Setenv("LOG_LEVEL", "error")
}

func TestRunTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("technology") != "gsm" {
			t.Errorf("technology = %q", r.URL.Query().Get("technology"))
		}
		_, _ = w.Write([]byte(`[{"time":"2024-01-01","dcr":"1.5"}]`))
	}))
	defer srv.Close()
	setEnv(t, srv.URL)

	args := `{"technology":"gsm","start_date":"2024-01-01","end_date":"2024-01-02","element":"BTS","kpi":["dcr"]}`

	var out bytes.Buffer
	if err := runTool([]string{args}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("runTool() error = %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(got) != 1 || got[0]["dcr"] != "1.5" {
		t.Errorf("output = %v", got)
	}
}

func TestRunTool_Stdin(t *testing.T) {
	setEnv(t, "http://127.0.0.1:1")

	var out bytes.Buffer
	err := runTool(nil, strings.NewReader(`{"technology":"5g"}`), &out)

	var verr *query.ValidationError
	if !errors.As(err, &verr) || verr.Field != "technology" {
		t.Fatalf("runTool() error = %v, want technology validation error", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed on error, got %q", out.String())
	}
}

func TestRunDescribe(t *testing.T) {
	setEnv(t, "http://127.0.0.1:1")
	dbPath := filepath.Join(t.TempDir(), "describe.db")
	t.Setenv("DATABASE_PATH", dbPath)

	var out bytes.Buffer
	if err := runDescribe(&out); err != nil {
		t.Fatalf("runDescribe() error = %v", err)
	}
	if !strings.Contains(out.String(), "dcr -> Drop Call Rate") {
		t.Errorf("description missing catalog metadata:\n%s", out.String())
	}

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Errorf("describe should not open the query log, stat error = %v", err)
	}
}

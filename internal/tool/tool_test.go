package tool

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/j-veylop/kpi-dashboard-tui/internal/query"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services/kpi"
)

type fakeFetcher struct {
	body  string
	err   error
	calls int
	last  *query.Descriptor
}

func (f *fakeFetcher) Fetch(_ context.Context, d *query.Descriptor) (json.RawMessage, error) {
	f.calls++
	f.last = d
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.body), nil
}

const validArgs = `{"technology":"lmbb","start_date":"2024-05-01","end_date":"2024-05-02","site":"ROME","kpi":["cssr_ps","erlang_volte"],"limit":10}`

func TestGetKPI_Call(t *testing.T) {
	f := &fakeFetcher{body: `[{"time":"2024-05-01T00:00:00","cssr_ps":99.5}]`}
	g := NewGetKPI(nil, f)

	out, err := g.Call(context.Background(), json.RawMessage(validArgs))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	rows, ok := out.([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("Call() = %#v, want one decoded row", out)
	}
	row := rows[0].(map[string]any)
	if row["cssr_ps"] != 99.5 {
		t.Errorf("cssr_ps = %v, want 99.5", row["cssr_ps"])
	}

	if f.last == nil || f.last.Limit != 10 || f.last.Site != "ROME" {
		t.Errorf("descriptor = %+v", f.last)
	}
}

func TestGetKPI_ValidationSkipsFetch(t *testing.T) {
	tests := []struct {
		name  string
		args  string
		field string
	}{
		{"Malformed", `{"technology":`, ""},
		{"UnknownField", `{"technology":"gsm","color":"red"}`, ""},
		{"TrailingData", validArgs + ` junk`, ""},
		{"SecondObject", validArgs + validArgs, ""},
		{"NoKPI", `{"technology":"gsm","start_date":"2024-01-01","end_date":"2024-01-02","site":"x","kpi":[]}`, "kpi"},
		{"FractionalLimit", `{"technology":"gsm","start_date":"2024-01-01","end_date":"2024-01-02","site":"x","kpi":["dcr"],"limit":1.5}`, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{body: `[]`}

			_, err := NewGetKPI(nil, f).Call(context.Background(), json.RawMessage(tt.args))

			var verr *query.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Call() error = %v, want *query.ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if f.calls != 0 {
				t.Errorf("fetcher called %d times", f.calls)
			}
		})
	}
}

func TestDecodeArgs_TrailingWhitespace(t *testing.T) {
	c, err := DecodeArgs(json.RawMessage(validArgs + "\n  \n"))
	if err != nil {
		t.Fatalf("DecodeArgs() error = %v", err)
	}
	if c.Technology != "lmbb" || len(c.KPI) != 2 {
		t.Errorf("DecodeArgs() = %+v", c)
	}
}

func TestGetKPI_ExecutionErrorPassesThrough(t *testing.T) {
	want := &kpi.ExecutionError{Kind: kpi.KindStatus, StatusCode: 500, Body: "boom"}
	g := NewGetKPI(nil, &fakeFetcher{err: want})

	_, err := g.Call(context.Background(), json.RawMessage(validArgs))

	var execErr *kpi.ExecutionError
	if !errors.As(err, &execErr) || execErr != want {
		t.Errorf("Call() error = %v, want the fetcher's error", err)
	}
}

func TestGetKPI_Metadata(t *testing.T) {
	g := NewGetKPI(nil, &fakeFetcher{})

	if g.Name() != "getKPI" {
		t.Errorf("Name() = %q", g.Name())
	}
	if !strings.Contains(g.Description(), "cell_availability_system") {
		t.Error("Description() should list the catalog")
	}
}

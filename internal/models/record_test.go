package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestRecord_Value(t *testing.T) {
	r := Record{
		"time":    "2024-01-01T00:00:00",
		"num":     12.5,
		"int":     7,
		"str":     " 3.25 ",
		"bad":     "n/a",
		"empty":   "",
		"yes":     true,
		"no":      false,
		"null":    nil,
		"jsonnum": json.Number("42"),
		"obj":     map[string]any{"x": 1},
	}

	tests := []struct {
		key    string
		want   float64
		wantOK bool
	}{
		{"num", 12.5, true},
		{"int", 7, true},
		{"str", 3.25, true},
		{"bad", 0, false},
		{"empty", 0, false},
		{"yes", 1, true},
		{"no", 0, true},
		{"null", 0, false},
		{"missing", 0, false},
		{"jsonnum", 42, true},
		{"obj", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := r.Lookup(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = (%v, %v), want (%v, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
			if v := r.Value(tt.key); v != tt.want {
				t.Errorf("Value(%q) = %v, want %v", tt.key, v, tt.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input  string
		want   time.Time
		wantOK bool
	}{
		{"2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), true},
		{"2024-01-02T03:04:05+02:00", time.Date(2024, 1, 2, 1, 4, 5, 0, time.UTC), true},
		{"2024-01-02T03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), true},
		{"2024-01-02T03:04", time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC), true},
		{"2024-01-02 03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), true},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTime(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseTime(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecord_TimeString(t *testing.T) {
	if got := (Record{"time": 5}).TimeString(); got != "" {
		t.Errorf("TimeString() = %q, want empty for non-string", got)
	}
	if _, ok := (Record{}).Time(); ok {
		t.Error("Time() ok for record without time")
	}
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"Array", `[{"time":"2024-01-01","dcr":1},{"time":"2024-01-02","dcr":2}]`, 2, false},
		{"DataEnvelope", `{"data":[{"time":"2024-01-01"}]}`, 1, false},
		{"RecordsEnvelope", `{"records":[]}`, 0, false},
		{"EmptyArray", ` [] `, 0, false},
		{"NoArray", `{"status":"ok"}`, 0, true},
		{"Malformed", `{"data":`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRecords([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeRecords() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}

	if _, err := DecodeRecords([]byte(`{}`)); !errors.Is(err, ErrNoRecords) {
		t.Errorf("DecodeRecords({}) error = %v, want ErrNoRecords", err)
	}
}

func TestOutcome_IsFailure(t *testing.T) {
	if OutcomeOK.IsFailure() {
		t.Error("OutcomeOK.IsFailure() = true")
	}
	for _, o := range []Outcome{OutcomeValidation, OutcomeHTTP, OutcomeTransport, OutcomeCanceled, OutcomeParse} {
		if !o.IsFailure() {
			t.Errorf("%s.IsFailure() = false", o)
		}
	}
}

func TestQueryStats_SuccessRate(t *testing.T) {
	s := &QueryStats{}
	if s.SuccessRate() != 0 {
		t.Errorf("SuccessRate() = %v, want 0", s.SuccessRate())
	}
	s = &QueryStats{TotalQueries: 4, FailedQueries: 1}
	if s.SuccessRate() != 75 {
		t.Errorf("SuccessRate() = %v, want 75", s.SuccessRate())
	}
}

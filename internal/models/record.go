// Package models defines data structures and domain types.
package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeField is the record key holding the sample timestamp.
const TimeField = "time"

// timeLayouts are tried in order when parsing a record timestamp.
// Layouts without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Record is one row returned by the KPI API: a time string plus one value per KPI key.
type Record map[string]any

// TimeString returns the raw time field, or "" when absent or not a string.
func (r Record) TimeString() string {
	s, _ := r[TimeField].(string)
	return s
}

// Time parses the time field. ok is false when the field is missing or unparseable.
func (r Record) Time() (t time.Time, ok bool) {
	return ParseTime(r.TimeString())
}

// Value returns the numeric value for key. Missing, null and unparseable
// values coerce to 0.
func (r Record) Value(key string) float64 {
	v, _ := r.Lookup(key)
	return v
}

// Lookup is like Value but reports whether the value was a usable number.
func (r Record) Lookup(key string) (float64, bool) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return 0, false
	}
	return coerce(raw)
}

func coerce(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseTime parses a record timestamp using the accepted layouts.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DecodeRecords accepts either a top-level array of records or an object
// carrying the array under "data" or "records".
func DecodeRecords(body []byte) ([]Record, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var records []Record
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var envelope struct {
		Data    []Record `json:"data"`
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	if envelope.Records != nil {
		return envelope.Records, nil
	}
	return nil, ErrNoRecords
}

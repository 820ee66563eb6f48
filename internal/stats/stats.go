// Package stats turns a raw KPI series into the summary shown next to its chart.
package stats

import (
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
)

const (
	dayLayout   = "Jan 2"
	pointLayout = "Jan 2, 15:04"
)

// Trend is the direction of change across a series.
type Trend int

const (
	TrendUp Trend = iota
	TrendDown
)

func (t Trend) String() string {
	if t == TrendDown {
		return "down"
	}
	return "up"
}

// Arrow returns the glyph used for the trend.
func (t Trend) Arrow() string {
	if t == TrendDown {
		return "▼"
	}
	return "▲"
}

// Extremum is a value together with the timestamp of the record it came from.
type Extremum struct {
	Value float64 `json:"value"`
	Time  string  `json:"time"`
}

// Summary holds the statistics for one KPI over one series.
type Summary struct {
	Min           Extremum `json:"min"`
	Max           Extremum `json:"max"`
	KPI           string   `json:"kpi"`
	RangeLabel    string   `json:"rangeLabel"`
	Count         int      `json:"count"`
	Current       float64  `json:"current"`
	First         float64  `json:"first"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"changePercent"`
	Average       float64  `json:"average"`
	StdDev        float64  `json:"stdDev"`
}

// Trend reports up when the change is zero or positive.
func (s Summary) Trend() Trend {
	if s.Change >= 0 {
		return TrendUp
	}
	return TrendDown
}

// Sort returns a copy of records ordered ascending by time. Records with an
// unparseable time sort first; ties keep their input order.
func Sort(records []models.Record) []models.Record {
	type keyed struct {
		rec models.Record
		at  time.Time
	}

	items := make([]keyed, len(records))
	for i, r := range records {
		at, _ := r.Time()
		items[i] = keyed{rec: r, at: at}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		return a.at.Compare(b.at)
	})

	sorted := make([]models.Record, len(items))
	for i, it := range items {
		sorted[i] = it.rec
	}
	return sorted
}

// Values extracts the coerced values for key, in record order.
func Values(records []models.Record, key string) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Value(key)
	}
	return values
}

// Summarize sorts records by time and computes the summary for key.
// It never fails: missing or non-numeric values count as 0.
func Summarize(records []models.Record, key string) ([]models.Record, Summary) {
	series := Sort(records)
	values := Values(series, key)

	s := Summary{KPI: key, Count: len(values)}
	if len(values) == 0 {
		return series, s
	}

	s.First = values[0]
	s.Current = values[len(values)-1]
	s.Change = s.Current - s.First
	if s.First != 0 {
		s.ChangePercent = s.Change / s.First * 100
	}

	s.Min = Extremum{Value: values[0], Time: series[0].TimeString()}
	s.Max = s.Min

	var sum float64
	for i, v := range values {
		sum += v
		// Strict comparisons keep the earliest occurrence on ties.
		if v < s.Min.Value {
			s.Min = Extremum{Value: v, Time: series[i].TimeString()}
		}
		if v > s.Max.Value {
			s.Max = Extremum{Value: v, Time: series[i].TimeString()}
		}
	}
	s.Average = sum / float64(len(values))
	s.StdDev = sampleStdDev(values, s.Average)
	s.RangeLabel = rangeLabel(series)

	return series, s
}

func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

func rangeLabel(series []models.Record) string {
	switch len(series) {
	case 0:
		return ""
	case 1:
		return formatTime(series[0], pointLayout)
	default:
		return formatTime(series[0], dayLayout) + " – " + formatTime(series[len(series)-1], dayLayout)
	}
}

func formatTime(r models.Record, layout string) string {
	if t, ok := r.Time(); ok {
		return t.Format(layout)
	}
	return r.TimeString()
}

// FormatDate renders an extremum timestamp as a short day label.
func FormatDate(raw string) string {
	if t, ok := models.ParseTime(raw); ok {
		return t.Format(dayLayout)
	}
	return raw
}

// FormatValue renders a KPI value with two decimals.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatChange renders the absolute change percent with its trend arrow.
func FormatChange(s Summary) string {
	return s.Trend().Arrow() + " " + FormatValue(math.Abs(s.ChangePercent)) + "%"
}

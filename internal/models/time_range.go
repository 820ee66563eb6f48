package models

import "time"

// TimeRange selects how far back the query log views reach.
type TimeRange int

const (
	TimeRangeDay TimeRange = iota
	TimeRangeWeek
	TimeRangeMonth
	TimeRangeAll
)

var timeRanges = [...]struct {
	label  string
	window time.Duration
}{
	TimeRangeDay:   {"24 Hours", 24 * time.Hour},
	TimeRangeWeek:  {"7 Days", 7 * 24 * time.Hour},
	TimeRangeMonth: {"30 Days", 30 * 24 * time.Hour},
	TimeRangeAll:   {"All Time", 0},
}

func (t TimeRange) valid() bool {
	return t >= 0 && int(t) < len(timeRanges)
}

// String returns the label shown in the history tab.
func (t TimeRange) String() string {
	if !t.valid() {
		return "Unknown"
	}
	return timeRanges[t].label
}

// Window returns the length of the range; 0 means unbounded.
func (t TimeRange) Window() time.Duration {
	if !t.valid() {
		return timeRanges[TimeRangeMonth].window
	}
	return timeRanges[t].window
}

// Cutoff returns the earliest instant inside the range ending at now.
// ok is false for an unbounded range.
func (t TimeRange) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	w := t.Window()
	if w == 0 {
		return time.Time{}, false
	}
	return now.Add(-w), true
}

// Next cycles to the following range, wrapping after All Time.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % TimeRange(len(timeRanges))
}

// DailyQueryCount is the number of logged queries on one UTC day.
type DailyQueryCount struct {
	Date     time.Time
	Count    int
	Failures int
}

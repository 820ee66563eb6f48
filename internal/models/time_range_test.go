package models

import (
	"testing"
	"time"
)

func TestTimeRange(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		tr         TimeRange
		label      string
		wantCutoff time.Time
		bounded    bool
		next       TimeRange
	}{
		{TimeRangeDay, "24 Hours", now.AddDate(0, 0, -1), true, TimeRangeWeek},
		{TimeRangeWeek, "7 Days", now.AddDate(0, 0, -7), true, TimeRangeMonth},
		{TimeRangeMonth, "30 Days", now.AddDate(0, 0, -30), true, TimeRangeAll},
		{TimeRangeAll, "All Time", time.Time{}, false, TimeRangeDay},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := tt.tr.String(); got != tt.label {
				t.Errorf("String() = %q, want %q", got, tt.label)
			}

			cutoff, ok := tt.tr.Cutoff(now)
			if ok != tt.bounded || !cutoff.Equal(tt.wantCutoff) {
				t.Errorf("Cutoff() = %v, %v, want %v, %v", cutoff, ok, tt.wantCutoff, tt.bounded)
			}

			if got := tt.tr.Next(); got != tt.next {
				t.Errorf("Next() = %v, want %v", got, tt.next)
			}
		})
	}
}

func TestTimeRange_Unknown(t *testing.T) {
	tr := TimeRange(42)

	if tr.String() != "Unknown" {
		t.Errorf("String() = %q", tr.String())
	}
	if tr.Window() != TimeRangeMonth.Window() {
		t.Errorf("Window() = %v, want the 30 day fallback", tr.Window())
	}
}

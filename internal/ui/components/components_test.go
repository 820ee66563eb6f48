package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/stats"
)

func TestBusy(t *testing.T) {
	b := NewBusy("Running query")

	if b.Elapsed() != 0 {
		t.Errorf("Elapsed() = %v before Start", b.Elapsed())
	}
	if view := b.View(); !strings.Contains(view, "Running query") || strings.Contains(view, "0s") {
		t.Errorf("idle View() = %q", view)
	}
	if b.Init() == nil {
		t.Error("Init() should return a tick")
	}

	if b.Start() == nil {
		t.Fatal("Start() should return a tick")
	}
	if !strings.Contains(b.View(), "Running query 0s") {
		t.Errorf("started View() = %q, want elapsed seconds", b.View())
	}
	if _, cmd := b.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("Update() should schedule the next tick")
	}
}

func TestBusy_Centered(t *testing.T) {
	b := NewBusy("Loading...")
	if view := b.Centered(30, 5); !strings.Contains(view, "Loading...") {
		t.Errorf("Centered() = %q", view)
	}
}

func TestRenderLineChart(t *testing.T) {
	s := RenderLineChart([]float64{1, 2, 3, 4}, 20, 5, "dcr")
	if !strings.Contains(s, "dcr") {
		t.Errorf("RenderLineChart() missing caption:\n%s", s)
	}

	if got := RenderLineChart(nil, 20, 5, "x"); !strings.Contains(got, "No data") {
		t.Errorf("empty chart = %q", got)
	}
}

func TestRenderBarChart(t *testing.T) {
	s := RenderBarChart([]float64{10, 20}, []string{"Jan 1", "Jan 2"}, 40)
	lines := strings.Split(s, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderBarChart() = %d lines, want 2", len(lines))
	}
	if strings.Count(lines[1], "█") <= strings.Count(lines[0], "█") {
		t.Error("larger value should have the longer bar")
	}
	if RenderBarChart(nil, nil, 40) != "" {
		t.Error("empty input should render nothing")
	}
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"Rising", []float64{1, 2, 3}, 10, "▁▄█"},
		{"Flat", []float64{5, 5}, 10, "▁▁"},
		{"Negative", []float64{-10, 0, 10}, 10, "▁▄█"},
		{"Empty", nil, 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderSparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("RenderSparkline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSummaryCards(t *testing.T) {
	records := []models.Record{
		{"time": "2024-01-01", "dcr": 2.0},
		{"time": "2024-01-02", "dcr": 4.0},
		{"time": "2024-01-03", "dcr": 1.0},
	}
	_, summary := stats.Summarize(records, "dcr")

	out := ansi.Strip(RenderSummaryCards(summary, 200))
	for _, want := range []string{"Current", "Change", "▼ 50.00%", "Average", "Min", "1.00 (Jan 3)", "Max", "4.00 (Jan 2)", "Std Dev"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary cards missing %q:\n%s", want, out)
		}
	}

	if got := RenderSummaryCards(stats.Summary{KPI: "dcr"}, 200); !strings.Contains(got, "No values for dcr") {
		t.Errorf("empty summary = %q", got)
	}
}

func TestRateBar_View(t *testing.T) {
	out := ansi.Strip(NewRateBar().View(75, "Success", 60))
	if !strings.Contains(out, "Success") || !strings.Contains(out, "75%") {
		t.Errorf("View() = %q", out)
	}
}

func TestRenderGradientBar(t *testing.T) {
	out := ansi.Strip(RenderGradientBar(50, 10))
	if strings.Count(out, "█") != 5 || strings.Count(out, "░") != 5 {
		t.Errorf("RenderGradientBar(50, 10) = %q", out)
	}
	if RenderGradientBar(50, 0) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestMustHex(t *testing.T) {
	if got := mustHex("#51cf66").Hex(); got != "#51cf66" {
		t.Errorf("mustHex() = %s", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("mustHex(invalid) should panic")
		}
	}()
	mustHex("zz")
}

package info

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/kpi-dashboard-tui/internal/app"
	"github.com/j-veylop/kpi-dashboard-tui/internal/config"
	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/version"
)

func TestModel_View(t *testing.T) {
	state := app.NewState()
	state.SetRecords([]models.Record{{"dcr": 1.0}, {"dcr": 2.0}}, []string{"dcr"})

	cfg := &config.Config{
		KPIAPIURL:          "http://kpi.example:8000",
		DatabasePath:       "/tmp/kpidash.db",
		RecordsPath:        "/tmp/records.json",
		ListenAddr:         ":8080",
		LogLevel:           "debug",
		AlertChangePercent: 25,
		QueryLogRetention:  72 * time.Hour,
	}
	m := New(state, cfg, nil)
	m.SetSize(100, 60)

	view := m.View()
	for _, want := range []string{
		"http://kpi.example:8000",
		"/tmp/records.json",
		"25.0%",
		"72h0m0s",
		"(stderr)",
		"GSM:",
		"Distinct Keys:",
		"Records loaded: 2",
		version.GetVersion(),
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_NilConfig(t *testing.T) {
	m := New(app.NewState(), nil, nil)
	m.SetSize(80, 40)

	if !strings.Contains(m.View(), "Configuration not loaded") {
		t.Error("nil config should be reported")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), &config.Config{}, nil)
	m.SetSize(80, 5)

	if _, cmd := m.Update(app.RecordsUpdatedMsg{}); cmd != nil {
		t.Error("non-key messages should be ignored")
	}
	m.View()
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil, nil)
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
}

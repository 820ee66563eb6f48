package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureJSON(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := Logger
	Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { Logger = orig })
	return &buf
}

func TestLevelHelpers(t *testing.T) {
	buf := captureJSON(t)

	helpers := map[string]func(string, ...any){
		"DEBUG": Debug,
		"INFO":  Info,
		"WARN":  Warn,
		"ERROR": Error,
	}

	for level, logFn := range helpers {
		buf.Reset()
		logFn("query finished", "technology", "gsm")

		var rec struct {
			Level      string `json:"level"`
			Msg        string `json:"msg"`
			Technology string `json:"technology"`
		}
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("%s: decode %q: %v", level, buf.String(), err)
		}
		if rec.Level != level || rec.Msg != "query finished" || rec.Technology != "gsm" {
			t.Errorf("%s: got %+v", level, rec)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetup_File(t *testing.T) {
	originalLogger := Logger
	defer func() { Logger = originalLogger }()

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	closer, err := Setup("warn", path)
	if err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}

	Info("dropped below level")
	Warn("kept", "key", "value")

	if err := closer.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "dropped below level") {
		t.Error("info message written at warn level")
	}
	if !strings.Contains(out, "msg=kept") || !strings.Contains(out, "key=value") {
		t.Errorf("log output = %q, want warn message", out)
	}
}

func TestSetup_Stderr(t *testing.T) {
	originalLogger := Logger
	defer func() { Logger = originalLogger }()

	closer, err := Setup("debug", "")
	if err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if !Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level not enabled")
	}
}

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if result := parseLevel(tt.input); result != tt.expected {
			t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "json")

	logger.Info("dropped")
	logger.Warn("kept", "sheet", "Sheet1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "kept" || entry["sheet"] != "Sheet1" {
		t.Errorf("entry = %v", entry)
	}
}

func TestRunID(t *testing.T) {
	ctx := context.Background()
	if RunID(ctx) != "" {
		t.Error("empty context should carry no run ID")
	}

	ctx, id := WithRunID(ctx)
	if id == "" || RunID(ctx) != id {
		t.Errorf("RunID = %q, expected %q", RunID(ctx), id)
	}

	_, other := WithRunID(context.Background())
	if other == id {
		t.Error("run IDs should be unique")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	original := slog.Default()
	slog.SetDefault(New(&buf, "info", "text"))
	defer slog.SetDefault(original)

	ctx, id := WithRunID(context.Background())
	WithFields(ctx, "input", "book.xlsx").Info("decoding")

	out := buf.String()
	if !strings.Contains(out, "run_id="+id) || !strings.Contains(out, "input=book.xlsx") {
		t.Errorf("log output = %q", out)
	}
}

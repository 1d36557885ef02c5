package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelWarn, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("shown", "phase", "parse")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %s", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "phase=parse") {
		t.Errorf("info record missing: %s", out)
	}
}

func TestNewFansOutToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dig.log")
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "debug", Writer: &buf, File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("lex", "tokens", 12)
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "msg=lex") {
		t.Errorf("terminal sink missing record: %s", buf.String())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("file sink is not JSON: %v\n%s", err, content)
	}
	if record["msg"] != "lex" || record["tokens"] != float64(12) {
		t.Errorf("unexpected file record: %v", record)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

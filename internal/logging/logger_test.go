package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	return slog.New(newConsoleHandler(buf, lvl))
}

func TestConsoleHandlerComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestLogger(&buf), "ledger")

	logger.Info("persisted entries", Int("entry_count", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO ledger: persisted entries") {
		t.Errorf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "entry_count=3") {
		t.Errorf("missing attribute in line: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Warn("stage failed", String("stage", "noise reduction"))

	if !strings.Contains(buf.String(), `stage="noise reduction"`) {
		t.Errorf("expected quoted value, got %q", buf.String())
	}
}

func TestConsoleHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf).WithGroup("pipeline")

	logger.Info("resized", Int("width", 800))

	if !strings.Contains(buf.String(), "pipeline.width=800") {
		t.Errorf("expected grouped key, got %q", buf.String())
	}
}

func TestNewRoutesRecordsByLevel(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.log")
	errPath := filepath.Join(dir, "err.log")

	logger, err := New(Options{
		OutputPaths:      []string{outPath},
		ErrorOutputPaths: []string{errPath},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("routine progress line")
	logger.Error("ledger write rejected")

	out := readLog(t, outPath)
	errOut := readLog(t, errPath)
	if !strings.Contains(out, "routine progress line") || strings.Contains(out, "ledger write rejected") {
		t.Errorf("output stream got wrong records: %q", out)
	}
	if !strings.Contains(errOut, "ledger write rejected") || strings.Contains(errOut, "routine progress line") {
		t.Errorf("error stream got wrong records: %q", errOut)
	}
}

func TestNewSharedLogFileReceivesAllLevels(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.log")

	logger, err := New(Options{
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("scan started")
	logger.Error("inference failed")

	combined := readLog(t, logPath)
	for _, want := range []string{"scan started", "inference failed"} {
		if !strings.Contains(combined, want) {
			t.Errorf("shared log missing %q: %q", want, combined)
		}
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic", Error(nil))
}

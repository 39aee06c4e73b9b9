package batch

import (
	"bytes"
	"context"
	"encoding/csv"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"vocabscan/internal/config"
	"vocabscan/internal/ledger"
	"vocabscan/internal/sink"
	"vocabscan/internal/vision"
)

const cardReply = "- word: cat\n  meaning: animal\n  example: The cat sleeps."

type stubClient struct {
	reply string
	err   error
	calls atomic.Int32
	hook  func(ctx context.Context)
}

func (s *stubClient) ExtractText(ctx context.Context, req vision.Request) (string, error) {
	s.calls.Add(1)
	if s.hook != nil {
		s.hook(ctx)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubClient) Name() string { return "stub" }

func (s *stubClient) Close() error { return nil }

func writeTestPNG(t *testing.T, path string, seed uint8) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: seed, G: uint8(x * 30), B: uint8(y * 30), A: 255})
		}
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test png: %v", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
}

func testSetup(t *testing.T, client vision.Client) (*Runner, *config.Config, *ledger.Ledger) {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "input")
	cfg.Paths.OutputCSV = filepath.Join(base, "cards.csv")
	cfg.Paths.LedgerPath = filepath.Join(base, "ledger.json")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Preprocessing.Preset = "minimal"
	if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
		t.Fatal(err)
	}

	led, err := ledger.Load(cfg.Paths.LedgerPath, nil)
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	runner, err := New(&cfg, led, client, sink.New(cfg.Paths.OutputCSV), nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner, &cfg, led
}

func countCSVRows(t *testing.T, path string) int {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return len(rows)
}

func TestNewWarnsOnArtifactRiskContrast(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "input")
	cfg.Paths.OutputCSV = filepath.Join(base, "cards.csv")
	cfg.Paths.LedgerPath = filepath.Join(base, "ledger.json")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	factor := 3.0
	cfg.Preprocessing.ContrastFactor = &factor

	led, err := ledger.Load(cfg.Paths.LedgerPath, nil)
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	if _, err := New(&cfg, led, &stubClient{reply: cardReply}, sink.New(cfg.Paths.OutputCSV), logger); err != nil {
		t.Fatalf("new runner: %v", err)
	}

	logged := buf.String()
	if !strings.Contains(logged, "artifact-risk") || !strings.Contains(logged, "contrast_factor 3") {
		t.Fatalf("expected artifact-risk warning for contrast_factor 3, got %q", logged)
	}
}

func TestRunDirectoryProcessesNewImages(t *testing.T) {
	client := &stubClient{reply: cardReply}
	runner, cfg, led := testSetup(t, client)
	writeTestPNG(t, filepath.Join(cfg.Paths.InputDir, "page1.png"), 10)
	writeTestPNG(t, filepath.Join(cfg.Paths.InputDir, "page2.png"), 20)

	summary, err := runner.RunDirectory(context.Background())
	if err != nil {
		t.Fatalf("RunDirectory: %v", err)
	}
	if summary.Total != 2 || summary.Processed != 2 || summary.Succeeded != 2 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Cards != 2 {
		t.Fatalf("expected 2 cards, got %d", summary.Cards)
	}
	if got := countCSVRows(t, cfg.Paths.OutputCSV); got != 3 {
		t.Fatalf("expected header + 2 rows, got %d", got)
	}
	if led.Count() != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", led.Count())
	}

	// The persisted ledger must survive a fresh load.
	reloaded, err := ledger.Load(cfg.Paths.LedgerPath, nil)
	if err != nil {
		t.Fatalf("reload ledger: %v", err)
	}
	if reloaded.Count() != 2 {
		t.Fatalf("expected 2 persisted entries, got %d", reloaded.Count())
	}
}

func TestRunDirectoryIsIdempotent(t *testing.T) {
	client := &stubClient{reply: cardReply}
	runner, cfg, _ := testSetup(t, client)
	writeTestPNG(t, filepath.Join(cfg.Paths.InputDir, "page.png"), 30)

	if _, err := runner.RunDirectory(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstRows := countCSVRows(t, cfg.Paths.OutputCSV)
	firstCalls := client.calls.Load()

	summary, err := runner.RunDirectory(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Skipped != 1 || summary.Processed != 0 {
		t.Fatalf("expected full skip on rerun, got %+v", summary)
	}
	if got := countCSVRows(t, cfg.Paths.OutputCSV); got != firstRows {
		t.Fatalf("rerun changed csv row count: %d -> %d", firstRows, got)
	}
	if client.calls.Load() != firstCalls {
		t.Fatal("rerun invoked the collaborator for an already-succeeded image")
	}
}

func TestRunDirectoryMixedLedger(t *testing.T) {
	client := &stubClient{reply: cardReply}
	runner, cfg, led := testSetup(t, client)

	pathA := filepath.Join(cfg.Paths.InputDir, "a.png")
	pathB := filepath.Join(cfg.Paths.InputDir, "b.png")
	pathC := filepath.Join(cfg.Paths.InputDir, "c.png")
	writeTestPNG(t, pathA, 1)
	writeTestPNG(t, pathB, 2)
	writeTestPNG(t, pathC, 3)

	led.Record(pathA, ledger.StatusSuccess, "", 4)
	led.Record(pathB, ledger.StatusFailed, "collaborator unreachable", 0)
	entryA, _ := led.Lookup(pathA)

	summary, err := runner.RunDirectory(context.Background())
	if err != nil {
		t.Fatalf("RunDirectory: %v", err)
	}
	if summary.Total != 3 || summary.Skipped != 1 || summary.Processed != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if client.calls.Load() != 2 {
		t.Fatalf("expected 2 collaborator calls (B and C), got %d", client.calls.Load())
	}

	after, _ := led.Lookup(pathA)
	if !after.Timestamp.Equal(entryA.Timestamp) || after.ContributedCards != 4 {
		t.Fatalf("succeeded entry was modified: %+v", after)
	}
	if entryB, _ := led.Lookup(pathB); entryB.Status != ledger.StatusSuccess {
		t.Fatalf("failed entry was not retried to success: %+v", entryB)
	}
}

func TestRunSingleForcesRerun(t *testing.T) {
	client := &stubClient{reply: cardReply}
	runner, cfg, led := testSetup(t, client)
	path := filepath.Join(cfg.Paths.InputDir, "a.png")
	writeTestPNG(t, path, 5)

	led.Record(path, ledger.StatusSuccess, "", 2)
	before, _ := led.Lookup(path)

	summary, err := runner.RunSingle(context.Background(), path)
	if err != nil {
		t.Fatalf("RunSingle: %v", err)
	}
	if summary.Processed != 1 || summary.Succeeded != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if client.calls.Load() != 1 {
		t.Fatal("forced run did not reach the collaborator")
	}
	after, _ := led.Lookup(path)
	if !after.Timestamp.After(before.Timestamp) {
		t.Fatal("forced rerun did not update the ledger timestamp")
	}
}

func TestRunSingleMissingImage(t *testing.T) {
	runner, cfg, _ := testSetup(t, &stubClient{reply: cardReply})
	if _, err := runner.RunSingle(context.Background(), filepath.Join(cfg.Paths.InputDir, "absent.png")); err == nil {
		t.Fatal("expected error for missing image")
	}
}

func TestRunDirectoryRecordsFailures(t *testing.T) {
	client := &stubClient{err: os.ErrDeadlineExceeded}
	runner, cfg, led := testSetup(t, client)
	path := filepath.Join(cfg.Paths.InputDir, "bad.png")
	writeTestPNG(t, path, 7)

	summary, err := runner.RunDirectory(context.Background())
	if err != nil {
		t.Fatalf("RunDirectory: %v", err)
	}
	if summary.Failed != 1 || summary.Succeeded != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	entry, ok := led.Lookup(path)
	if !ok || entry.Status != ledger.StatusFailed || entry.Error == "" {
		t.Fatalf("expected failed entry with message, got %+v", entry)
	}
	if countCSVRows(t, cfg.Paths.OutputCSV) != 0 {
		t.Fatal("failed image must not contribute csv rows")
	}

	// A later run with a healthy collaborator retries automatically.
	client.err = nil
	client.reply = cardReply
	summary, err = runner.RunDirectory(context.Background())
	if err != nil {
		t.Fatalf("retry run: %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("expected retry to succeed, got %+v", summary)
	}
}

func TestRunDirectoryEmptyReplyIsFailure(t *testing.T) {
	client := &stubClient{reply: "[]"}
	runner, cfg, led := testSetup(t, client)
	path := filepath.Join(cfg.Paths.InputDir, "blank.png")
	writeTestPNG(t, path, 9)

	summary, err := runner.RunDirectory(context.Background())
	if err != nil {
		t.Fatalf("RunDirectory: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("expected zero-card reply recorded as failure, got %+v", summary)
	}
	if entry, _ := led.Lookup(path); entry.Status != ledger.StatusFailed {
		t.Fatalf("expected failed status, got %+v", entry)
	}
}

func TestRunDirectoryHonorsCancellation(t *testing.T) {
	client := &stubClient{reply: cardReply}
	runner, cfg, led := testSetup(t, client)
	writeTestPNG(t, filepath.Join(cfg.Paths.InputDir, "a.png"), 1)
	writeTestPNG(t, filepath.Join(cfg.Paths.InputDir, "b.png"), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := runner.RunDirectory(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
	if summary.Processed != 0 {
		t.Fatalf("cancelled run should process nothing, got %+v", summary)
	}
	if led.Count() != 0 {
		t.Fatal("cancelled run should leave no ledger entries")
	}
}

func TestRunDirectoryRecordsInterruptedImage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &stubClient{hook: func(context.Context) { cancel() }}
	runner, cfg, led := testSetup(t, client)
	path := filepath.Join(cfg.Paths.InputDir, "a.png")
	writeTestPNG(t, path, 4)

	if _, err := runner.RunDirectory(ctx); err == nil {
		t.Fatal("expected context error")
	}

	entry, ok := led.Lookup(path)
	if !ok || entry.Status != ledger.StatusFailed {
		t.Fatalf("interrupted image must be recorded failed, got %+v", entry)
	}
	if !strings.Contains(entry.Error, "interrupted") {
		t.Fatalf("expected interrupted marker in error, got %q", entry.Error)
	}

	// The interrupted entry must already be on disk.
	reloaded, err := ledger.Load(cfg.Paths.LedgerPath, nil)
	if err != nil {
		t.Fatalf("reload ledger: %v", err)
	}
	if _, ok := reloaded.Lookup(path); !ok {
		t.Fatal("interrupted entry was not persisted before return")
	}
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "notes.txt", "c.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	images, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.PNG"),
		filepath.Join(dir, "c.webp"),
	}
	if len(images) != len(want) {
		t.Fatalf("unexpected images: %v", images)
	}
	for i := range want {
		if images[i] != want[i] {
			t.Fatalf("unexpected images: %v", images)
		}
	}
}

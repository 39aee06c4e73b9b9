package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vocabscan/internal/config"
	"vocabscan/internal/preprocess"
	"vocabscan/internal/services"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantInput := filepath.Join(tempHome, "vocabscan", "input")
	if cfg.Paths.InputDir != wantInput {
		t.Fatalf("unexpected input dir: got %q want %q", cfg.Paths.InputDir, wantInput)
	}
	wantLedger := filepath.Join(tempHome, ".local", "share", "vocabscan", "ledger.json")
	if cfg.Paths.LedgerPath != wantLedger {
		t.Fatalf("unexpected ledger path: %q", cfg.Paths.LedgerPath)
	}
	if cfg.Vision.Provider != "ollama" {
		t.Fatalf("unexpected default provider: %q", cfg.Vision.Provider)
	}
	if cfg.Vision.BaseURL != "http://127.0.0.1:11434" {
		t.Fatalf("unexpected base url: %q", cfg.Vision.BaseURL)
	}
	if cfg.Vision.Model != "qwen2.5-vl" {
		t.Fatalf("unexpected model: %q", cfg.Vision.Model)
	}
	if cfg.Watch.IntervalSeconds != 30 {
		t.Fatalf("unexpected watch interval: %d", cfg.Watch.IntervalSeconds)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.InputDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vocabscan.toml")

	content := `
[paths]
input_dir = "` + filepath.Join(tempDir, "scans") + `"
output_csv = "` + filepath.Join(tempDir, "cards.csv") + `"

[vision]
provider = "ollama"
base_url = "http://ollama.local:11434/"
model = "llava"

[preprocessing]
preset = "fast"
max_width = 1200
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.InputDir != filepath.Join(tempDir, "scans") {
		t.Fatalf("unexpected input dir: %q", cfg.Paths.InputDir)
	}
	if cfg.Vision.BaseURL != "http://ollama.local:11434" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Vision.BaseURL)
	}
	if cfg.Vision.Model != "llava" {
		t.Fatalf("unexpected model: %q", cfg.Vision.Model)
	}

	pp, err := cfg.PreprocessConfig()
	if err != nil {
		t.Fatalf("PreprocessConfig: %v", err)
	}
	if pp.MaxWidth != 1200 {
		t.Fatalf("expected max_width override 1200, got %d", pp.MaxWidth)
	}
	if pp.MaxHeight != 1536 {
		t.Fatalf("expected fast preset max_height 1536, got %d", pp.MaxHeight)
	}
	if pp.EnableContrast {
		t.Fatal("fast preset should leave contrast disabled")
	}
	if pp.OutputFormat != preprocess.FormatJPEG {
		t.Fatalf("expected fast preset jpeg output, got %q", pp.OutputFormat)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vocabscan.toml")
	content := `
[vision]
provider = "openai"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !errors.Is(err, services.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestLoadGeminiRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vocabscan.toml")
	content := `
[vision]
provider = "gemini"
model = "gemini-2.0-flash"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := config.Load(configPath); !errors.Is(err, services.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "demo-key")
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load with env key: %v", err)
	}
	if cfg.Vision.APIKey != "demo-key" {
		t.Fatalf("expected api key from env, got %q", cfg.Vision.APIKey)
	}
}

func TestLoadRejectsUnknownPreset(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vocabscan.toml")
	content := `
[preprocessing]
preset = "turbo"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := config.Load(configPath); !errors.Is(err, services.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestLoadRejectsOutOfRangeOverride(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vocabscan.toml")
	content := `
[preprocessing]
jpeg_quality = 150
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := config.Load(configPath); !errors.Is(err, services.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestPreprocessConfigFillsDebugDirs(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vocabscan.toml")
	content := `
[paths]
ledger_path = "` + filepath.Join(tempDir, "state", "ledger.json") + `"

[preprocessing]
preset = "ocr-optimized"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pp, err := cfg.PreprocessConfig()
	if err != nil {
		t.Fatalf("PreprocessConfig: %v", err)
	}
	if !pp.SaveProcessedImage {
		t.Fatal("ocr-optimized preset should save processed images")
	}
	want := filepath.Join(tempDir, "state", "processed")
	if pp.ProcessedImageDir != want {
		t.Fatalf("expected processed dir %q, got %q", want, pp.ProcessedImageDir)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("sample config is empty")
	}
}

func TestExpandPathTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	expanded, err := config.ExpandPath("~/images")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if expanded != filepath.Join(tempHome, "images") {
		t.Fatalf("unexpected expansion: %q", expanded)
	}
}

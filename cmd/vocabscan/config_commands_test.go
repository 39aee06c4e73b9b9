package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Errorf("expected output to mention %q, got %q", target, output)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[preprocessing]") {
		t.Error("sample config missing preprocessing section")
	}

	// A second init without --overwrite must refuse.
	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when target exists")
	}
	if _, err := executeCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigPathPrintsDefault(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	output, err := executeCommand(t, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	want := filepath.Join(tempHome, ".config", "vocabscan", "config.toml")
	if strings.TrimSpace(output) != want {
		t.Errorf("unexpected path output: %q", output)
	}
}

func TestPresetsListsAllPresets(t *testing.T) {
	output, err := executeCommand(t, "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	for _, name := range []string{"default", "fast", "quality", "optimized", "ocr-optimized", "minimal"} {
		if !strings.Contains(output, name) {
			t.Errorf("presets output missing %q", name)
		}
	}
}

func TestLedgerListEmpty(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	output, err := executeCommand(t, "ledger", "list")
	if err != nil {
		t.Fatalf("ledger list: %v", err)
	}
	if !strings.Contains(output, "Ledger is empty") {
		t.Errorf("unexpected output: %q", output)
	}
}

func TestLedgerClearRequiresConfirmation(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	if _, err := executeCommand(t, "ledger", "clear"); err == nil {
		t.Fatal("expected refusal without --yes")
	}
	if _, err := executeCommand(t, "ledger", "clear", "--yes"); err != nil {
		t.Fatalf("ledger clear --yes: %v", err)
	}
}

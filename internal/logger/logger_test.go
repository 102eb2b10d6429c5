package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message", "tracker", "abc")
	Error("Test error message")
}

func TestInitDebugModeWritesConsole(t *testing.T) {
	var console bytes.Buffer
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir(), Stderr: &console}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	Debug("reloading board", "categories", 3)

	out := console.String()
	if !strings.Contains(out, "reloading board") {
		t.Errorf("debug output missing message, got %q", out)
	}
	if !strings.Contains(out, "categories=3") {
		t.Errorf("debug output missing keyvals, got %q", out)
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Logger = nil

	// Must not panic.
	Debug("nothing")
	Info("nothing")
	Warn("nothing")
	Error("nothing")
	if With("k", "v") != nil {
		t.Error("With() before Init should return nil")
	}
}

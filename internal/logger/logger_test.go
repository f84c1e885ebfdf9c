package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{Dir: dir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", dir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if Logger.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, want warn", Logger.GetLevel())
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitDebugMode(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{Debug: true, Dir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", Logger.GetLevel())
	}
}

func TestInitExplicitLevel(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{Level: "info", Dir: t.TempDir()}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Logger.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want info", Logger.GetLevel())
	}

	if err := Init(Config{Level: "loud", Dir: t.TempDir()}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	Logger = nil
	// Must not panic.
	Debug("x")
	Infof("%d", 1)
	Errorf("%s", "y")
}

func TestNewWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	Logger = New(&buf, log.InfoLevel, false)
	t.Cleanup(func() { Logger = nil })

	Info("database initialized", "backend", "badger")
	Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "database initialized") || !strings.Contains(out, "backend=badger") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered: %q", out)
	}
}

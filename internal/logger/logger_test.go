package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := Config{
		Level:  "info",
		Format: "text",
	}
	logger := New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}

	cfg.Format = "json"
	logger = New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}

	// invalid level falls back to info
	cfg.Level = "invalid"
	logger = New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.WithUser("alice").Info("Play recorded", "track_id", 7)

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "Play recorded" {
		t.Errorf("Expected msg 'Play recorded', got %v", rec["msg"])
	}
	if rec["username"] != "alice" {
		t.Errorf("Expected username 'alice', got %v", rec["username"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "text", Output: &buf})

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info record should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("Warn record should be written: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	logger := New(Config{Level: "info", Format: "text"})
	componentLogger := logger.WithComponent("test-component")

	if componentLogger == nil {
		t.Error("Expected component logger to not be nil")
	}

	componentLogger2 := componentLogger.WithComponent("nested-component")
	if componentLogger2 == nil {
		t.Error("Expected nested component logger to not be nil")
	}
}

func TestWithTrack(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "text", Output: &buf})

	log.WithTrack(42, "Test Song").Info("Rating saved")

	out := buf.String()
	if !strings.Contains(out, "track_id=42") {
		t.Errorf("Expected track_id attribute, got %s", out)
	}
	if !strings.Contains(out, `track_name="Test Song"`) {
		t.Errorf("Expected track_name attribute, got %s", out)
	}
}

func TestDiscard(t *testing.T) {
	if Discard() == nil {
		t.Error("Expected discard logger to not be nil")
	}
}

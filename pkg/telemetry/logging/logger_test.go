package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"tessera-hq/vesta/pkg/config"
)

// TestNew_JSONFormat tests structured output through the JSON handler.
func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("state saved", "version", 3)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %s", buf.String())
	}
	if entry["msg"] != "state saved" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["version"] != float64(3) {
		t.Errorf("unexpected version attr: %v", entry["version"])
	}
}

// TestNew_LevelFiltering tests that records below the level are
// dropped.
func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info record leaked through warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn record missing")
	}
}

// TestNew_InvalidConfig tests rejection of unknown levels and formats.
func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "loud"}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(config.LoggingConfig{Format: "xml"}, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

// TestParseLevel tests the level mapping including the empty default.
func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for input, want := range cases {
		got, err := ParseLevel(input)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", input, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

// TestForComponent tests the component tag.
func TestForComponent(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(config.LoggingConfig{Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ForComponent(base, "learning.compiler").Info("hello")

	if !strings.Contains(buf.String(), `"component":"learning.compiler"`) {
		t.Errorf("component tag missing: %s", buf.String())
	}
}

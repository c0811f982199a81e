package cli

import (
	"bytes"
	"strings"
	"testing"
)

// TestParseFormat tests the flag value mapping.
func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Errorf("empty should default to text, got %v (%v)", f, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("expected json, got %v (%v)", f, err)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

// TestWriteJSON tests indented rendering.
func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]int{"version": 3}); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\"version\": 3") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

// TestTable tests the aligned text rendering.
func TestTable(t *testing.T) {
	var buf bytes.Buffer
	err := Table(&buf, []string{"VERSION", "SHA256"}, [][]string{
		{"1", "abc123"},
		{"2", "def456"},
	})
	if err != nil {
		t.Fatalf("Table() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "VERSION") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[2], "def456") {
		t.Errorf("unexpected row: %s", lines[2])
	}
}

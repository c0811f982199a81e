package observe

import (
	"encoding/json"
	"testing"
)

// TestContext_HistorySamples_FromJSON tests the shape a decoded JSON
// snapshot produces.
func TestContext_HistorySamples_FromJSON(t *testing.T) {
	raw := `{"history_samples": [{"drawdown": 0.3, "symbol": "SPY"}, {"reversals_7d": 4}]}`

	var ctx Context
	if err := json.Unmarshal([]byte(raw), &ctx); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}

	samples := ctx.HistorySamples()
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}

	drawdown, ok := samples[0].Float("drawdown")
	if !ok || drawdown != 0.3 {
		t.Errorf("expected drawdown 0.3, got %v (ok=%v)", drawdown, ok)
	}
	reversals, ok := samples[1].Int("reversals_7d")
	if !ok || reversals != 4 {
		t.Errorf("expected reversals 4, got %d (ok=%v)", reversals, ok)
	}
}

// TestContext_HistorySamples_Shapes tests the accepted list shapes.
func TestContext_HistorySamples_Shapes(t *testing.T) {
	fromTyped := Context{"history_samples": []Sample{{"symbol": "SPY"}}}
	if got := fromTyped.HistorySamples(); len(got) != 1 {
		t.Errorf("[]Sample shape: expected 1, got %d", len(got))
	}

	fromMaps := Context{"history_samples": []map[string]interface{}{{"symbol": "SPY"}}}
	if got := fromMaps.HistorySamples(); len(got) != 1 {
		t.Errorf("[]map shape: expected 1, got %d", len(got))
	}

	absent := Context{}
	if got := absent.HistorySamples(); got != nil {
		t.Errorf("absent key: expected nil, got %v", got)
	}

	wrong := Context{"history_samples": "not a list"}
	if got := wrong.HistorySamples(); got != nil {
		t.Errorf("wrong shape: expected nil, got %v", got)
	}
}

// TestSample_String tests the fallback behavior.
func TestSample_String(t *testing.T) {
	s := Sample{"symbol": "SPY", "count": 3}
	if got := s.String("symbol", "unknown"); got != "SPY" {
		t.Errorf("expected SPY, got %s", got)
	}
	if got := s.String("missing", "unknown"); got != "unknown" {
		t.Errorf("expected fallback, got %s", got)
	}
	if got := s.String("count", "unknown"); got != "unknown" {
		t.Errorf("expected fallback for non-string, got %s", got)
	}
}

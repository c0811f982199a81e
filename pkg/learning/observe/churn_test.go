package observe

import (
	"testing"

	"tessera-hq/vesta/pkg/learning"
)

// TestChurnObserver tests candidate emission above the reversal
// threshold.
func TestChurnObserver(t *testing.T) {
	obs := NewChurnObserver(3)

	candidates, err := obs.Observe(historyContext(
		map[string]interface{}{"reversals_7d": float64(5), "symbol": "TSLA"},
		map[string]interface{}{"reversals_7d": float64(2), "symbol": "SPY"},
	))
	if err != nil {
		t.Fatalf("Observe() failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}

	cand := candidates[0]
	if cand.Category != learning.CategoryBannedPattern {
		t.Errorf("expected banned_pattern, got %s", cand.Category)
	}
	if cand.Proposal != "Ban symbol TSLA due to churn" {
		t.Errorf("unexpected proposal: %s", cand.Proposal)
	}
	if len(cand.Evidence) != 1 || cand.Evidence[0] != "Reversals count 5 > 3" {
		t.Errorf("unexpected evidence: %v", cand.Evidence)
	}
	if cand.Confidence != 0.6 {
		t.Errorf("expected confidence 0.6, got %v", cand.Confidence)
	}
	if cand.SuggestedTTLDays != 7 {
		t.Errorf("expected TTL 7, got %d", cand.SuggestedTTLDays)
	}
	if cand.Source != "churn_observer" {
		t.Errorf("unexpected source: %s", cand.Source)
	}
}

// TestChurnObserver_AtThreshold tests that a count equal to the
// threshold does not trigger.
func TestChurnObserver_AtThreshold(t *testing.T) {
	obs := NewChurnObserver(3)
	candidates, err := obs.Observe(historyContext(
		map[string]interface{}{"reversals_7d": float64(3), "symbol": "TSLA"},
	))
	if err != nil {
		t.Fatalf("Observe() failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("count equal to threshold should not trigger, got %d candidates", len(candidates))
	}
}

// TestNewChurnObserver_Defaults tests the threshold default.
func TestNewChurnObserver_Defaults(t *testing.T) {
	if obs := NewChurnObserver(0); obs.ReversalThreshold != DefaultChurnReversalThreshold {
		t.Errorf("expected default threshold %d, got %d", DefaultChurnReversalThreshold, obs.ReversalThreshold)
	}
}

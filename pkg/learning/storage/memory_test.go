package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"tessera-hq/vesta/pkg/learning"
)

func testCandidate(id, proposal string) learning.Candidate {
	return learning.Candidate{
		ID:               id,
		Category:         learning.CategoryHardCap,
		Level:            learning.LevelSymbol,
		Proposal:         proposal,
		Evidence:         []string{"Drawdown 0.25 detected on 2026-08-01"},
		Confidence:       0.8,
		SuggestedTTLDays: 30,
		GeneratedAt:      time.Now().UTC(),
		Source:           "drawdown_observer",
	}
}

func testState(version int) *learning.State {
	return &learning.State{
		Version:                 version,
		GeneratedAt:             time.Now().UTC(),
		ContextSignatureSummary: "compiled_candidates: 1 items; window=7d",
		HardCaps: []learning.HardCapPolicy{{
			PolicyID:   "policy-1",
			Level:      learning.LevelSymbol,
			Rule:       "Cap allocation for SPY due to high drawdown",
			Confidence: 0.8,
			TTLDays:    30,
		}},
		FailSignaturesTopK: []string{},
		DataGapWatchlist:   []string{},
		EvidenceIndex:      []string{},
		TTLDays:            30,
		HalfLifeDays:       30,
	}
}

// TestMemoryStore_AppendAndLoad tests the candidate round trip.
func TestMemoryStore_AppendAndLoad(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	result := store.AppendCandidates(ctx, []learning.Candidate{
		testCandidate("c1", "Cap allocation for SPY due to high drawdown"),
		testCandidate("c2", "Cap allocation for QQQ due to high drawdown"),
	})
	if result.Persisted != 2 {
		t.Fatalf("expected 2 persisted, got %d", result.Persisted)
	}
	if len(result.Skipped) != 0 {
		t.Fatalf("expected no skips, got %d", len(result.Skipped))
	}

	loaded, err := store.LoadCandidatesSince(ctx, time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("LoadCandidatesSince() failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(loaded))
	}
}

// TestMemoryStore_AppendIsolation tests that a failing row skips that
// row only.
func TestMemoryStore_AppendIsolation(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	store.FailAppendFor = map[string]bool{"c2": true}
	ctx := context.Background()

	result := store.AppendCandidates(ctx, []learning.Candidate{
		testCandidate("c1", "a"),
		testCandidate("c2", "b"),
		testCandidate("c3", "c"),
	})
	if result.Persisted != 2 {
		t.Fatalf("expected 2 persisted, got %d", result.Persisted)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].CandidateID != "c2" {
		t.Fatalf("expected c2 skipped, got %+v", result.Skipped)
	}

	loaded, err := store.LoadCandidatesSince(ctx, time.Now().UTC().AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("LoadCandidatesSince() failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 surviving candidates, got %d", len(loaded))
	}
}

// TestMemoryStore_DuplicateID tests duplicate candidate ids are
// skipped, not overwritten.
func TestMemoryStore_DuplicateID(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	store.AppendCandidates(ctx, []learning.Candidate{testCandidate("c1", "first")})
	result := store.AppendCandidates(ctx, []learning.Candidate{testCandidate("c1", "second")})

	if result.Persisted != 0 {
		t.Errorf("duplicate id should not persist, got %d", result.Persisted)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skip, got %d", len(result.Skipped))
	}

	var storageErr *learning.StorageError
	if !errors.As(result.Skipped[0].Reason, &storageErr) {
		t.Fatalf("expected StorageError reason, got %T", result.Skipped[0].Reason)
	}
}

// TestMemoryStore_MalformedRowSkipped tests that a corrupted stored
// row is skipped on load without failing the batch.
func TestMemoryStore_MalformedRowSkipped(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	store.AppendCandidates(ctx, []learning.Candidate{
		testCandidate("c1", "a"),
		testCandidate("c2", "b"),
	})
	store.CorruptCandidate("c1")

	loaded, err := store.LoadCandidatesSince(ctx, time.Now().UTC().AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("LoadCandidatesSince() failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 well-formed candidate, got %d", len(loaded))
	}
	if loaded[0].ID != "c2" {
		t.Errorf("expected c2 to survive, got %s", loaded[0].ID)
	}
}

// TestMemoryStore_LoadCutoff tests the time window filter.
func TestMemoryStore_LoadCutoff(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	store.AppendCandidates(ctx, []learning.Candidate{testCandidate("c1", "a")})

	// Cutoff in the future excludes everything
	loaded, err := store.LoadCandidatesSince(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("LoadCandidatesSince() failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected no candidates past a future cutoff, got %d", len(loaded))
	}
}

// TestMemoryStore_StateLifecycle tests the singleton plus history
// contract.
func TestMemoryStore_StateLifecycle(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	// Empty store: no state, no error
	state, err := store.LoadCurrentState(ctx)
	if err != nil {
		t.Fatalf("LoadCurrentState() failed: %v", err)
	}
	if state != nil {
		t.Fatal("expected nil state from empty store")
	}

	for v := 1; v <= 3; v++ {
		if err := store.SaveState(ctx, testState(v)); err != nil {
			t.Fatalf("SaveState(v%d) failed: %v", v, err)
		}
	}

	// Current is the latest version
	state, err = store.LoadCurrentState(ctx)
	if err != nil {
		t.Fatalf("LoadCurrentState() failed: %v", err)
	}
	if state == nil || state.Version != 3 {
		t.Fatalf("expected current version 3, got %+v", state)
	}

	// History holds every version, newest first
	history, err := store.StateHistory(ctx, 10)
	if err != nil {
		t.Fatalf("StateHistory() failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 history rows, got %d", len(history))
	}
	if history[0].Version != 3 || history[2].Version != 1 {
		t.Errorf("expected newest-first ordering, got %d..%d", history[0].Version, history[2].Version)
	}
	for _, entry := range history {
		if entry.PayloadSHA256 == "" {
			t.Errorf("history row v%d missing payload hash", entry.Version)
		}
		if entry.LogID == "" {
			t.Errorf("history row v%d missing log id", entry.Version)
		}
	}
}

// TestMemoryStore_Reports tests the report round trip and audit list.
func TestMemoryStore_Reports(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	report := &learning.ShadowReport{
		ReportID:        "rep-1",
		RunID:           "run-1",
		LearningVersion: 2,
		EnforcementMode: "shadow",
		EvaluatedAt:     time.Now().UTC(),
		TotalOrders:     3,
		BlockedCount:    1,
		ShadowResults:   []learning.ShadowOrderResult{},
	}
	if err := store.SaveReport(ctx, report); err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}

	loaded, err := store.ReportByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReportByRunID() failed: %v", err)
	}
	if loaded == nil || loaded.ReportID != "rep-1" || loaded.BlockedCount != 1 {
		t.Fatalf("unexpected report: %+v", loaded)
	}

	missing, err := store.ReportByRunID(ctx, "no-such-run")
	if err != nil {
		t.Fatalf("ReportByRunID() failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown run id")
	}

	entries, err := store.ListReports(ctx, 10)
	if err != nil {
		t.Fatalf("ListReports() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].RunID != "run-1" {
		t.Fatalf("unexpected audit rows: %+v", entries)
	}
}

// TestMemoryStore_Prune tests cutoff-based deletion of both logs.
func TestMemoryStore_Prune(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	store.AppendCandidates(ctx, []learning.Candidate{testCandidate("c1", "a")})
	store.SaveReport(ctx, &learning.ShadowReport{
		ReportID:    "rep-1",
		RunID:       "run-1",
		EvaluatedAt: time.Now().UTC().AddDate(0, 0, -100),
	})

	deleted, err := store.PruneCandidatesBefore(ctx, time.Now().UTC().AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("PruneCandidatesBefore() failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("fresh candidate should survive, deleted %d", deleted)
	}

	deleted, err = store.PruneReportsBefore(ctx, time.Now().UTC().AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("PruneReportsBefore() failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("aged report should be pruned, deleted %d", deleted)
	}
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tessera-hq/vesta/pkg/learning"
)

// MemoryStore implements Store using in-memory slices. It is intended
// for tests and ephemeral runs; nothing survives process exit.
type MemoryStore struct {
	mu sync.RWMutex

	candidates []memoryRow // append order, oldest first
	current    *memoryRow  // singleton current state
	stateLog   []memoryRow
	reports    []memoryRow

	// FailAppendFor simulates per-row persistence failures in tests:
	// candidate ids in this set are rejected.
	FailAppendFor map[string]bool
}

// memoryRow mirrors a stored row: payload plus integrity digest.
type memoryRow struct {
	id        string
	runID     string
	version   int
	payload   string
	sha256    string
	createdAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// AppendCandidates persists candidates with per-row isolation.
func (s *MemoryStore) AppendCandidates(ctx context.Context, candidates []learning.Candidate) AppendResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result AppendResult
	now := time.Now().UTC()

	seen := make(map[string]bool, len(s.candidates))
	for _, row := range s.candidates {
		seen[row.id] = true
	}

	for _, cand := range candidates {
		if s.FailAppendFor[cand.ID] {
			result.Skipped = append(result.Skipped, SkippedCandidate{
				CandidateID: cand.ID,
				Reason:      learning.NewStorageError("memory", "append", fmt.Errorf("simulated failure")),
			})
			continue
		}
		if seen[cand.ID] {
			result.Skipped = append(result.Skipped, SkippedCandidate{
				CandidateID: cand.ID,
				Reason:      learning.NewStorageError("memory", "append", fmt.Errorf("duplicate candidate id")),
			})
			continue
		}

		payload, digest, err := learning.PayloadWithHash(cand)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedCandidate{CandidateID: cand.ID, Reason: err})
			continue
		}

		s.candidates = append(s.candidates, memoryRow{
			id:        cand.ID,
			payload:   string(payload),
			sha256:    digest,
			createdAt: now,
		})
		seen[cand.ID] = true
		result.Persisted++
	}

	return result
}

// CorruptCandidate overwrites a stored candidate payload, for testing
// malformed-row handling on load.
func (s *MemoryStore) CorruptCandidate(candidateID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.candidates {
		if s.candidates[i].id == candidateID {
			s.candidates[i].payload = "{not json"
		}
	}
}

// LoadCandidatesSince returns candidates created at or after the
// cutoff, most recent first, skipping malformed payloads.
func (s *MemoryStore) LoadCandidatesSince(ctx context.Context, cutoff time.Time) ([]learning.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []learning.Candidate
	for i := len(s.candidates) - 1; i >= 0; i-- {
		row := s.candidates[i]
		if row.createdAt.Before(cutoff) {
			continue
		}
		var cand learning.Candidate
		if err := json.Unmarshal([]byte(row.payload), &cand); err != nil {
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}

// SaveState replaces the singleton and appends one history row. Both
// happen under one lock so they cannot diverge.
func (s *MemoryStore) SaveState(ctx context.Context, state *learning.State) error {
	payload, digest, err := learning.PayloadWithHash(state)
	if err != nil {
		return learning.NewStorageError("memory", "save_state", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := memoryRow{
		id:        uuid.New().String(),
		version:   state.Version,
		payload:   string(payload),
		sha256:    digest,
		createdAt: time.Now().UTC(),
	}
	s.current = &row
	s.stateLog = append(s.stateLog, row)
	return nil
}

// LoadCurrentState returns the current state or nil when empty.
func (s *MemoryStore) LoadCurrentState(ctx context.Context) (*learning.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, nil
	}
	var state learning.State
	if err := json.Unmarshal([]byte(s.current.payload), &state); err != nil {
		return nil, learning.NewStorageError("memory", "load_state", err)
	}
	return &state, nil
}

// StateHistory returns history rows, newest first.
func (s *MemoryStore) StateHistory(ctx context.Context, limit int) ([]StateLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	var entries []StateLogEntry
	for i := len(s.stateLog) - 1; i >= 0 && len(entries) < limit; i-- {
		row := s.stateLog[i]
		entries = append(entries, StateLogEntry{
			LogID:         row.id,
			Version:       row.version,
			PayloadSHA256: row.sha256,
			CreatedAt:     row.createdAt,
		})
	}
	return entries, nil
}

// SaveReport appends one immutable report row.
func (s *MemoryStore) SaveReport(ctx context.Context, report *learning.ShadowReport) error {
	payload, digest, err := learning.PayloadWithHash(report)
	if err != nil {
		return learning.NewStorageError("memory", "save_report", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, memoryRow{
		id:        report.ReportID,
		runID:     report.RunID,
		version:   report.LearningVersion,
		payload:   string(payload),
		sha256:    digest,
		createdAt: report.EvaluatedAt,
	})
	return nil
}

// ReportByRunID returns the most recent report for a run, or nil.
func (s *MemoryStore) ReportByRunID(ctx context.Context, runID string) (*learning.ShadowReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.reports) - 1; i >= 0; i-- {
		if s.reports[i].runID != runID {
			continue
		}
		var report learning.ShadowReport
		if err := json.Unmarshal([]byte(s.reports[i].payload), &report); err != nil {
			return nil, learning.NewStorageError("memory", "load_report", err)
		}
		return &report, nil
	}
	return nil, nil
}

// ListReports returns report audit rows, newest first.
func (s *MemoryStore) ListReports(ctx context.Context, limit int) ([]ReportLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	entries := make([]ReportLogEntry, 0, len(s.reports))
	for i := len(s.reports) - 1; i >= 0 && len(entries) < limit; i-- {
		row := s.reports[i]
		entries = append(entries, ReportLogEntry{
			ReportID:        row.id,
			RunID:           row.runID,
			LearningVersion: row.version,
			PayloadSHA256:   row.sha256,
			CreatedAt:       row.createdAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// PruneCandidatesBefore deletes candidate rows older than the cutoff.
func (s *MemoryStore) PruneCandidatesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []memoryRow
	var deleted int64
	for _, row := range s.candidates {
		if row.createdAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	s.candidates = kept
	return deleted, nil
}

// PruneReportsBefore deletes report rows older than the cutoff.
func (s *MemoryStore) PruneReportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []memoryRow
	var deleted int64
	for _, row := range s.reports {
		if row.createdAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	s.reports = kept
	return deleted, nil
}

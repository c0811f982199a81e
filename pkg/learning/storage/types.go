package storage

import (
	"context"
	"time"

	"tessera-hq/vesta/pkg/learning"
)

// SkippedCandidate records one candidate that could not be persisted
// during an append, together with the reason. Skips are a normal,
// visible outcome, not a batch failure.
type SkippedCandidate struct {
	CandidateID string
	Reason      error
}

// AppendResult summarizes a candidate append: how many rows landed and
// which were skipped.
type AppendResult struct {
	Persisted int
	Skipped   []SkippedCandidate
}

// StateLogEntry is one audit row from the learning state history log.
type StateLogEntry struct {
	LogID         string
	Version       int
	PayloadSHA256 string
	CreatedAt     time.Time
}

// ReportLogEntry is one audit row from the shadow report log.
type ReportLogEntry struct {
	ReportID        string
	RunID           string
	LearningVersion int
	PayloadSHA256   string
	CreatedAt       time.Time
}

// Store is the persistence backend for the learning subsystem. The
// handle is constructed by the caller and injected into each component;
// lifecycle is owned by the caller. Implementations must be safe for
// concurrent readers.
type Store interface {
	// AppendCandidates persists candidates one row at a time. Failed
	// rows are skipped, never aborting the rest of the batch.
	AppendCandidates(ctx context.Context, candidates []learning.Candidate) AppendResult

	// LoadCandidatesSince returns candidates created at or after the
	// cutoff, most recent first. Malformed stored rows are skipped
	// individually.
	LoadCandidatesSince(ctx context.Context, cutoff time.Time) ([]learning.Candidate, error)

	// SaveState writes a new learning state version: the singleton
	// current row is replaced and one history row is appended, both in
	// a single transaction.
	SaveState(ctx context.Context, state *learning.State) error

	// LoadCurrentState returns the current learning state, always the
	// highest version present, or nil when none exists.
	LoadCurrentState(ctx context.Context) (*learning.State, error)

	// StateHistory returns up to limit history rows, newest first.
	StateHistory(ctx context.Context, limit int) ([]StateLogEntry, error)

	// SaveReport appends an immutable shadow enforcement report.
	SaveReport(ctx context.Context, report *learning.ShadowReport) error

	// ReportByRunID returns the most recent report for a run, or nil
	// when none exists.
	ReportByRunID(ctx context.Context, runID string) (*learning.ShadowReport, error)

	// ListReports returns up to limit report audit rows, newest first.
	ListReports(ctx context.Context, limit int) ([]ReportLogEntry, error)

	// PruneCandidatesBefore deletes candidate rows created before the
	// cutoff and returns the number deleted.
	PruneCandidatesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// PruneReportsBefore deletes report rows created before the cutoff
	// and returns the number deleted. State history is never pruned.
	PruneReportsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases backend resources.
	Close() error
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tessera-hq/vesta/pkg/learning"
)

// SQLiteConfig contains configuration for the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/vesta.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite in WAL mode.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens the database, applies pragmas, and initializes
// the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		config.Path, int(config.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, learning.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "learning.storage.sqlite"),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// initSchema creates the four logical tables if they do not exist.
func (s *SQLiteStore) initSchema() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return learning.NewStorageError("sqlite", "init_schema", err)
	}
	return nil
}

// DB exposes the underlying handle for maintenance tooling.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendCandidates persists candidates one row at a time. Each row is
// its own implicit transaction so a failed insert (for example a
// duplicate candidate id) cannot poison the rest of the batch.
func (s *SQLiteStore) AppendCandidates(ctx context.Context, candidates []learning.Candidate) AppendResult {
	var result AppendResult
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	for _, cand := range candidates {
		payload, digest, err := learning.PayloadWithHash(cand)
		if err != nil {
			s.logger.Error("candidate serialization failed",
				"candidate_id", cand.ID, "error", err)
			result.Skipped = append(result.Skipped, SkippedCandidate{CandidateID: cand.ID, Reason: err})
			continue
		}

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO learning_candidates_log (
				candidate_id, category, level, proposal, payload_json, payload_sha256, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			cand.ID, string(cand.Category), string(cand.Level), cand.Proposal,
			string(payload), digest, createdAt,
		)
		if err != nil {
			s.logger.Error("candidate append failed",
				"candidate_id", cand.ID, "error", err)
			result.Skipped = append(result.Skipped, SkippedCandidate{
				CandidateID: cand.ID,
				Reason:      learning.NewStorageError("sqlite", "append", err),
			})
			continue
		}
		result.Persisted++
	}

	return result
}

// LoadCandidatesSince returns candidates created at or after the
// cutoff, most recent first. Rows whose payload fails to parse are
// skipped and logged.
func (s *SQLiteStore) LoadCandidatesSince(ctx context.Context, cutoff time.Time) ([]learning.Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload_json FROM learning_candidates_log
		 WHERE created_at >= ? ORDER BY created_at DESC`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, learning.NewStorageError("sqlite", "load_candidates", err)
	}
	defer rows.Close()

	var candidates []learning.Candidate
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, learning.NewStorageError("sqlite", "load_candidates", err)
		}

		var cand learning.Candidate
		if err := json.Unmarshal([]byte(payload), &cand); err != nil {
			s.logger.Warn("skipping malformed candidate row", "error", err)
			continue
		}
		candidates = append(candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, learning.NewStorageError("sqlite", "load_candidates", err)
	}

	return candidates, nil
}

// SaveState replaces the singleton current row and appends one history
// row in a single transaction. The singleton is a true one-row table:
// delete then insert.
func (s *SQLiteStore) SaveState(ctx context.Context, state *learning.State) error {
	payload, digest, err := learning.PayloadWithHash(state)
	if err != nil {
		return learning.NewStorageError("sqlite", "save_state", err)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	logID := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return learning.NewStorageError("sqlite", "save_state", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM learning_state_latest`); err != nil {
		return learning.NewStorageError("sqlite", "save_state", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO learning_state_latest (version, payload_json, payload_sha256, created_at)
		 VALUES (?, ?, ?, ?)`,
		state.Version, string(payload), digest, createdAt,
	); err != nil {
		return learning.NewStorageError("sqlite", "save_state", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO learning_state_log (log_id, version, payload_json, payload_sha256, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		logID, state.Version, string(payload), digest, createdAt,
	); err != nil {
		return learning.NewStorageError("sqlite", "save_state", err)
	}

	if err := tx.Commit(); err != nil {
		return learning.NewStorageError("sqlite", "save_state", err)
	}

	return nil
}

// LoadCurrentState returns the current learning state or nil when no
// state has been compiled yet. Ordering by version keeps the
// max(version) contract even if the singleton table ever held more
// than one row.
func (s *SQLiteStore) LoadCurrentState(ctx context.Context) (*learning.State, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload_json FROM learning_state_latest ORDER BY version DESC LIMIT 1`,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, learning.NewStorageError("sqlite", "load_state", err)
	}

	var state learning.State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, learning.NewStorageError("sqlite", "load_state", err)
	}
	return &state, nil
}

// StateHistory returns the newest history rows first.
func (s *SQLiteStore) StateHistory(ctx context.Context, limit int) ([]StateLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT log_id, version, payload_sha256, created_at
		 FROM learning_state_log ORDER BY version DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, learning.NewStorageError("sqlite", "state_history", err)
	}
	defer rows.Close()

	var entries []StateLogEntry
	for rows.Next() {
		var entry StateLogEntry
		var createdStr string
		if err := rows.Scan(&entry.LogID, &entry.Version, &entry.PayloadSHA256, &createdStr); err != nil {
			return nil, learning.NewStorageError("sqlite", "state_history", err)
		}
		entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveReport appends one immutable shadow enforcement report.
func (s *SQLiteStore) SaveReport(ctx context.Context, report *learning.ShadowReport) error {
	payload, digest, err := learning.PayloadWithHash(report)
	if err != nil {
		return learning.NewStorageError("sqlite", "save_report", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO shadow_enforcement_reports (
			report_id, run_id, learning_version, payload_json, payload_sha256, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		report.ReportID, report.RunID, report.LearningVersion,
		string(payload), digest, report.EvaluatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return learning.NewStorageError("sqlite", "save_report", err)
	}
	return nil
}

// ReportByRunID returns the most recent report for the run, or nil.
func (s *SQLiteStore) ReportByRunID(ctx context.Context, runID string) (*learning.ShadowReport, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload_json FROM shadow_enforcement_reports
		 WHERE run_id = ? ORDER BY created_at DESC LIMIT 1`, runID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, learning.NewStorageError("sqlite", "load_report", err)
	}

	var report learning.ShadowReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, learning.NewStorageError("sqlite", "load_report", err)
	}
	return &report, nil
}

// ListReports returns the newest report audit rows first.
func (s *SQLiteStore) ListReports(ctx context.Context, limit int) ([]ReportLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT report_id, run_id, learning_version, payload_sha256, created_at
		 FROM shadow_enforcement_reports ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, learning.NewStorageError("sqlite", "list_reports", err)
	}
	defer rows.Close()

	var entries []ReportLogEntry
	for rows.Next() {
		var entry ReportLogEntry
		var createdStr string
		if err := rows.Scan(&entry.ReportID, &entry.RunID, &entry.LearningVersion,
			&entry.PayloadSHA256, &createdStr); err != nil {
			return nil, learning.NewStorageError("sqlite", "list_reports", err)
		}
		entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// PruneCandidatesBefore deletes candidate rows older than the cutoff.
func (s *SQLiteStore) PruneCandidatesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM learning_candidates_log WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, learning.NewStorageError("sqlite", "prune_candidates", err)
	}
	return res.RowsAffected()
}

// PruneReportsBefore deletes report rows older than the cutoff.
func (s *SQLiteStore) PruneReportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM shadow_enforcement_reports WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, learning.NewStorageError("sqlite", "prune_reports", err)
	}
	return res.RowsAffected()
}

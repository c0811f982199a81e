package storage

// schemaSQL defines the four logical tables of the learning subsystem.
// Every row stores the canonical JSON payload and its SHA-256 digest.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS learning_candidates_log (
	candidate_id   TEXT PRIMARY KEY,
	category       TEXT NOT NULL,
	level          TEXT NOT NULL,
	proposal       TEXT NOT NULL,
	payload_json   TEXT NOT NULL,
	payload_sha256 TEXT NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidates_created_at
	ON learning_candidates_log(created_at);

CREATE TABLE IF NOT EXISTS learning_state_latest (
	version        INTEGER PRIMARY KEY,
	payload_json   TEXT NOT NULL,
	payload_sha256 TEXT NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS learning_state_log (
	log_id         TEXT PRIMARY KEY,
	version        INTEGER NOT NULL,
	payload_json   TEXT NOT NULL,
	payload_sha256 TEXT NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_state_log_version
	ON learning_state_log(version);

CREATE TABLE IF NOT EXISTS shadow_enforcement_reports (
	report_id        TEXT PRIMARY KEY,
	run_id           TEXT NOT NULL,
	learning_version INTEGER NOT NULL,
	payload_json     TEXT NOT NULL,
	payload_sha256   TEXT NOT NULL,
	created_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_run_id
	ON shadow_enforcement_reports(run_id);

CREATE INDEX IF NOT EXISTS idx_reports_created_at
	ON shadow_enforcement_reports(created_at);
`

// Package learning defines the core data model for the Vesta policy
// learning subsystem: observer-proposed candidates, compiled policies,
// the versioned learning state, and shadow enforcement reports.
//
// # Architecture
//
// The learning subsystem is a closed loop:
//
//  1. Observers scan historical context and emit Candidates
//  2. The candidate log persists every Candidate, append-only
//  3. The Compiler deduplicates and ranks candidates into a new
//     versioned State
//  4. The Gate exposes the current State read-only, advisory-only
//  5. The Shadow Evaluator measures what enforcing the State against
//     proposed orders would have done, without enforcing anything
//
// # Integrity
//
// Candidates, learning state versions, and shadow reports are stored
// with a SHA-256 hash of their canonical JSON payload for tamper and
// audit detection. Candidates and shadow reports are immutable once
// written; learning state versions are append-only in history with a
// single addressable "current" version.
//
// Enforcement is off in this milestone: the Gate reports
// enforcement_mode "off" unconditionally and the evaluator only ever
// records what would have happened.
package learning

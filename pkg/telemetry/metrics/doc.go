// Package metrics exposes Prometheus metrics for the learning
// subsystem: candidates observed and persisted, compile outcomes and
// durations, the current learning state version, and shadow
// evaluation outcomes.
//
// The Collector takes an injected registry so tests and embedding
// binaries control registration. Long-lived commands can serve the
// registry over HTTP via Handler.
package metrics

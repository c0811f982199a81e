// Package observe implements the observer set: pure functions that
// scan a historical context and emit policy candidates.
//
// Observers must not perform I/O beyond reading the supplied context.
// A failing observer is logged and excluded; the remaining observers
// still run and contribute. The aggregate output is the concatenation
// of all observers' candidates in registration order, then sample
// order within each observer. No deduplication happens here; duplicate
// or conflicting candidates are expected and resolved by the compiler.
package observe

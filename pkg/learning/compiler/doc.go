// Package compiler turns the recent candidate log into a new versioned
// learning state.
//
// A compile run is deterministic given its inputs: candidates are
// deduplicated by (category, level, proposal) keeping the higher
// confidence, ranked per category, truncated to a top-K, and mapped to
// freshly identified policies. Because policy ids and timestamps are
// regenerated every run, idempotency is decided by a semantic
// signature over (level, rule-or-signature) tuples rather than a
// byte-for-byte comparison: recompiling unchanged source data is an
// explicit no-op that neither advances the version nor writes anything.
//
// Concurrent compile runs are not supported; callers serialize them.
package compiler

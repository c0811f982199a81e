// Package shadow evaluates proposed orders against the current
// learning state without enforcing anything. For every order it
// records what enforcement would have done, in strict precedence
// order: banned pattern, then hard cap, then soft bias, with the first
// blocking match short-circuiting the rest.
//
// The evaluator never mutates the input orders. Its failures must be
// fully isolated by the calling pipeline: logged, never raised into
// the action producer.
package shadow

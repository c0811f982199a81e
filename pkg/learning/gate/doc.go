// Package gate exposes the current learning state as a read-only,
// advisory context. It is a deliberate safety rail: enforcement_mode
// is "off" unconditionally in this milestone, and consumers may log
// the gate context but must not use it to alter execution.
package gate

// Package retention prunes aged rows from the append-only candidate
// and shadow report logs. Learning state history is never pruned: it
// is the audit trail.
//
// Pruning is maintenance tooling layered around the core, not part of
// it: the synchronous learning core never schedules anything. The
// scheduler here only runs inside a long-lived command, on an explicit
// cron expression.
package retention

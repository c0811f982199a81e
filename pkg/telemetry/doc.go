// Package telemetry groups Vesta's observability concerns: structured
// logging and Prometheus metrics. The learning subsystem is advisory
// in this milestone, so telemetry is the only way its behavior is
// visible to operators.
package telemetry

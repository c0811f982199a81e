package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tessera-hq/vesta/pkg/config"
)

// Collector manages all Prometheus metrics for the learning
// subsystem. A disabled collector records nothing and costs almost
// nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	candidatesObserved  *prometheus.CounterVec
	candidatesPersisted prometheus.Counter
	candidatesSkipped   prometheus.Counter

	compileRuns     *prometheus.CounterVec
	compileDuration prometheus.Histogram
	learningVersion prometheus.Gauge

	evaluations   prometheus.Counter
	orderOutcomes *prometheus.CounterVec
	evalDuration  prometheus.Histogram
	ordersPerEval prometheus.Histogram
}

// NewCollector creates a metrics collector with the given configuration
// and registry. If registry is nil a fresh one is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		candidatesObserved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "candidates_observed_total",
			Help:      "Candidates emitted by observers, by observer name.",
		}, []string{"observer"}),

		candidatesPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "candidates_persisted_total",
			Help:      "Candidates successfully appended to the candidate log.",
		}),

		candidatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "candidates_skipped_total",
			Help:      "Candidate rows skipped during append due to per-row failures.",
		}),

		compileRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "compile_runs_total",
			Help:      "Compile runs by outcome (saved, no_change, error).",
		}, []string{"outcome"}),

		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "compile_duration_seconds",
			Help:      "Duration of compile runs.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		learningVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "learning_state_version",
			Help:      "Version of the most recently saved learning state.",
		}),

		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "shadow_evaluations_total",
			Help:      "Shadow evaluation runs completed.",
		}),

		orderOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "shadow_orders_total",
			Help:      "Orders evaluated in shadow mode, by outcome (blocked, biased, pass).",
		}, []string{"outcome"}),

		evalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "shadow_evaluation_duration_seconds",
			Help:      "Duration of shadow evaluation runs.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),

		ordersPerEval: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "shadow_orders_per_evaluation",
			Help:      "Number of orders per shadow evaluation run.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}

	registry.MustRegister(
		c.candidatesObserved,
		c.candidatesPersisted,
		c.candidatesSkipped,
		c.compileRuns,
		c.compileDuration,
		c.learningVersion,
		c.evaluations,
		c.orderOutcomes,
		c.evalDuration,
		c.ordersPerEval,
	)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordCandidatesObserved counts candidates emitted by one observer.
func (c *Collector) RecordCandidatesObserved(observer string, count int) {
	if !c.config.Enabled {
		return
	}
	c.candidatesObserved.WithLabelValues(observer).Add(float64(count))
}

// RecordCandidatesPersisted counts a candidate append outcome.
func (c *Collector) RecordCandidatesPersisted(persisted, skipped int) {
	if !c.config.Enabled {
		return
	}
	c.candidatesPersisted.Add(float64(persisted))
	c.candidatesSkipped.Add(float64(skipped))
}

// RecordCompile implements the compiler's Metrics interface.
func (c *Collector) RecordCompile(outcome string, duration time.Duration, version int) {
	if !c.config.Enabled {
		return
	}
	c.compileRuns.WithLabelValues(outcome).Inc()
	c.compileDuration.Observe(duration.Seconds())
	if version > 0 {
		c.learningVersion.Set(float64(version))
	}
}

// RecordEvaluation implements the shadow evaluator's Metrics interface.
func (c *Collector) RecordEvaluation(duration time.Duration, total, blocked, biased int) {
	if !c.config.Enabled {
		return
	}
	c.evaluations.Inc()
	c.evalDuration.Observe(duration.Seconds())
	c.ordersPerEval.Observe(float64(total))
	c.orderOutcomes.WithLabelValues("blocked").Add(float64(blocked))
	c.orderOutcomes.WithLabelValues("biased").Add(float64(biased))
	pass := total - blocked - biased
	if pass > 0 {
		c.orderOutcomes.WithLabelValues("pass").Add(float64(pass))
	}
}

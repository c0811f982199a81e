package observe

import (
	"fmt"
	"log/slog"

	"tessera-hq/vesta/pkg/learning"
)

// Observer scans a context and proposes zero or more candidates.
// Implementations must be pure: no I/O, no mutation of the context.
type Observer interface {
	// Name identifies the observer; it is recorded as the candidate
	// source and used in failure logs.
	Name() string

	// Observe returns the candidates proposed for the given context,
	// in sample order.
	Observe(ctx Context) ([]learning.Candidate, error)
}

// Registry holds observers in registration order and runs them with
// per-observer failure isolation.
type Registry struct {
	observers []Observer
	logger    *slog.Logger
}

// NewRegistry creates a registry over the given observers. Order is
// preserved: aggregate output concatenates per-observer results in
// this order.
func NewRegistry(logger *slog.Logger, observers ...Observer) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		observers: observers,
		logger:    logger.With("component", "learning.observe"),
	}
}

// Register appends an observer to the end of the run order.
func (r *Registry) Register(o Observer) {
	r.observers = append(r.observers, o)
}

// Observers returns the registered observers in run order.
func (r *Registry) Observers() []Observer {
	return r.observers
}

// Run executes every observer against the context. An observer that
// returns an error or panics contributes nothing; the rest still run.
func (r *Registry) Run(ctx Context) []learning.Candidate {
	var out []learning.Candidate

	for _, obs := range r.observers {
		candidates, err := r.runOne(obs, ctx)
		if err != nil {
			r.logger.Error("observer failed",
				"observer", obs.Name(),
				"error", err,
			)
			continue
		}
		out = append(out, candidates...)
	}

	return out
}

// runOne runs a single observer, converting panics into errors so one
// misbehaving observer cannot abort the batch.
func (r *Registry) runOne(obs Observer, ctx Context) (candidates []learning.Candidate, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			candidates = nil
			err = fmt.Errorf("observer panicked: %v", rec)
		}
	}()
	return obs.Observe(ctx)
}

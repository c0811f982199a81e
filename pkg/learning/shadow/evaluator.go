package shadow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tessera-hq/vesta/pkg/learning"
	"tessera-hq/vesta/pkg/learning/storage"
)

// EnforcementModeShadow marks every report produced here as dry-run.
const EnforcementModeShadow = "shadow"

// Severity scores for triggered policies.
const (
	severityBlock = 1.0
	severityBias  = 0.3
)

// Metrics receives evaluation outcomes.
type Metrics interface {
	RecordEvaluation(duration time.Duration, total, blocked, biased int)
}

// Evaluator runs shadow enforcement over proposed orders.
type Evaluator struct {
	store   storage.Store
	logger  *slog.Logger
	metrics Metrics
}

// New creates an evaluator over the given store. metrics may be nil.
func New(store storage.Store, logger *slog.Logger, metrics Metrics) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		store:   store,
		logger:  logger.With("component", "learning.shadow"),
		metrics: metrics,
	}
}

// Evaluate computes, per order, whether the state's policies would
// trigger, persists an immutable report, and returns it.
//
// A nil state is not an error: the report carries learning version 0,
// zero counts, and an empty result list, and is returned without being
// persisted since there was nothing to evaluate against.
func (e *Evaluator) Evaluate(ctx context.Context, orders []learning.Order, state *learning.State, runID string) (*learning.ShadowReport, error) {
	start := time.Now()
	now := start.UTC()

	if state == nil {
		e.logger.Info("shadow evaluation skipped, no learning state",
			"run_id", runID, "orders", len(orders))
		return &learning.ShadowReport{
			ReportID:        uuid.New().String(),
			RunID:           runID,
			LearningVersion: 0,
			EnforcementMode: EnforcementModeShadow,
			EvaluatedAt:     now,
			TotalOrders:     len(orders),
			ShadowResults:   []learning.ShadowOrderResult{},
		}, nil
	}

	results := make([]learning.ShadowOrderResult, 0, len(orders))
	blocked, reduced, biased := 0, 0, 0

	for _, order := range orders {
		result := evaluateOrder(order, state)
		if result.WouldBlock {
			blocked++
		}
		if result.WouldReduceSize {
			reduced++
		}
		if result.WouldApplyBias {
			biased++
		}
		results = append(results, result)
	}

	report := &learning.ShadowReport{
		ReportID:        uuid.New().String(),
		RunID:           runID,
		LearningVersion: state.Version,
		EnforcementMode: EnforcementModeShadow,
		EvaluatedAt:     now,
		TotalOrders:     len(orders),
		BlockedCount:    blocked,
		ReducedCount:    reduced,
		BiasedCount:     biased,
		ShadowResults:   results,
	}

	if err := e.store.SaveReport(ctx, report); err != nil {
		return nil, learning.NewEvaluationError(runID, err)
	}

	e.logger.Info("shadow report saved",
		"report_id", report.ReportID,
		"run_id", runID,
		"learning_version", report.LearningVersion,
		"blocked", blocked,
		"biased", biased,
	)
	if e.metrics != nil {
		e.metrics.RecordEvaluation(time.Since(start), len(orders), blocked, biased)
	}

	return report, nil
}

// evaluateOrder applies the precedence chain to one order. First match
// wins: a banned pattern blocks and skips the cap check, a cap blocks
// and skips the bias check. The input order is never modified.
func evaluateOrder(order learning.Order, state *learning.State) learning.ShadowOrderResult {
	var triggered []string
	block := false
	bias := false
	severity := 0.0

	for _, ban := range state.BannedPatterns {
		if strings.EqualFold(ban.Signature, order.Ticker) {
			triggered = append(triggered, fmt.Sprintf("BAN:%s:%s", ban.PolicyID, ban.Signature))
			block = true
			severity = severityBlock
		}
	}

	if !block {
		for _, hc := range state.HardCaps {
			if hc.Rule != "" && strings.Contains(hc.Rule, order.Ticker) {
				triggered = append(triggered, fmt.Sprintf("CAP:%s", hc.PolicyID))
				block = true
				severity = severityBlock
			}
		}
	}

	if !block {
		for _, sb := range state.SoftBias {
			if sb.Rule != "" && strings.Contains(sb.Rule, order.Ticker) {
				triggered = append(triggered, fmt.Sprintf("BIAS:%s", sb.PolicyID))
				bias = true
				if severity < severityBias {
					severity = severityBias
				}
			}
		}
	}

	reason := "pass"
	if len(triggered) > 0 {
		reason = strings.Join(triggered, "; ")
	}

	return learning.ShadowOrderResult{
		OrderID:           uuid.New().String(),
		Ticker:            order.Ticker,
		WouldBlock:        block,
		WouldReduceSize:   false,
		WouldApplyBias:    bias,
		TriggeredPolicies: triggered,
		SeverityScore:     severity,
		ReasonSummary:     reason,
	}
}

package gate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tessera-hq/vesta/pkg/learning"
	"tessera-hq/vesta/pkg/learning/storage"
)

// EmptyStateSignature is the summary signature reported when no
// learning state exists yet.
const EmptyStateSignature = "empty_state"

// Gate is the read-only accessor over the current learning state.
type Gate struct {
	store  storage.Store
	logger *slog.Logger
}

// New creates a gate over the given store.
func New(store storage.Store, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		store:  store,
		logger: logger.With("component", "learning.gate"),
	}
}

// Load returns the gate context for the current state. A missing state
// yields zero counts and the fixed empty-state signature rather than
// an error; only a storage failure is surfaced, and callers use it for
// logging, never for branching.
func (g *Gate) Load(ctx context.Context) (learning.GateContext, error) {
	now := time.Now().UTC()

	state, err := g.store.LoadCurrentState(ctx)
	if err != nil {
		return learning.GateContext{}, err
	}

	if state == nil {
		return learning.GateContext{
			LearningVersion:  0,
			LoadedAt:         now,
			SummarySignature: EmptyStateSignature,
			EnforcementMode:  learning.EnforcementModeOff,
		}, nil
	}

	// Short content summary plus truncated hash, for log correlation.
	summary := fmt.Sprintf("v%d|caps=%d|bias=%d|bans=%d",
		state.Version, len(state.HardCaps), len(state.SoftBias), len(state.BannedPatterns))
	signature := learning.HashString(summary)[:8]

	gctx := learning.GateContext{
		LearningVersion:     state.Version,
		LoadedAt:            now,
		HardCapsCount:       len(state.HardCaps),
		SoftBiasCount:       len(state.SoftBias),
		BannedPatternsCount: len(state.BannedPatterns),
		SummarySignature:    summary + "|" + signature,
		EnforcementMode:     learning.EnforcementModeOff,
	}

	g.logger.Debug("gate context loaded",
		"learning_version", gctx.LearningVersion,
		"signature", gctx.SummarySignature,
	)
	return gctx, nil
}

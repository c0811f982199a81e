package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"tessera-hq/vesta/pkg/learning"
	"tessera-hq/vesta/pkg/learning/storage"
)

// Default compile parameters.
const (
	DefaultLookbackDays       = 7
	DefaultTopKHardCaps       = 20
	DefaultTopKSoftBias       = 20
	DefaultTopKBannedPatterns = 50

	// defaultStateTTLDays is the package-level TTL stamped on the
	// compiled state.
	defaultStateTTLDays      = 30
	defaultStateHalfLifeDays = 30
)

// Outcome signals how a compile run ended.
type Outcome string

const (
	// OutcomeSaved means a new state version was persisted.
	OutcomeSaved Outcome = "saved"

	// OutcomeNoChange means the proposed state was semantically
	// identical to the current one and was discarded without a write.
	OutcomeNoChange Outcome = "no_change"
)

// Options control one compile run.
type Options struct {
	// LookbackDays is the candidate window. Default 7.
	LookbackDays int

	// ForceNewVersion skips the idempotency check and always persists.
	ForceNewVersion bool
}

// Result is the outcome of one compile run. State is nil on a no-op.
type Result struct {
	Outcome        Outcome
	State          *learning.State
	CandidatesSeen int
	Deduplicated   int
}

// TopK bounds the per-category policy counts.
type TopK struct {
	HardCaps       int
	SoftBias       int
	BannedPatterns int
}

// DefaultTopK returns the default per-category bounds.
func DefaultTopK() TopK {
	return TopK{
		HardCaps:       DefaultTopKHardCaps,
		SoftBias:       DefaultTopKSoftBias,
		BannedPatterns: DefaultTopKBannedPatterns,
	}
}

// Metrics receives compile outcomes. Implementations must tolerate
// being called from a single goroutine per compiler.
type Metrics interface {
	RecordCompile(outcome string, duration time.Duration, version int)
}

// Compiler compiles candidates into learning states. The store handle
// is injected; the compiler owns no connections.
type Compiler struct {
	store   storage.Store
	logger  *slog.Logger
	metrics Metrics
	topK    TopK
}

// New creates a compiler over the given store. metrics may be nil.
func New(store storage.Store, logger *slog.Logger, metrics Metrics) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		store:   store,
		logger:  logger.With("component", "learning.compiler"),
		metrics: metrics,
		topK:    DefaultTopK(),
	}
}

// WithTopK overrides the per-category bounds. Non-positive values keep
// the defaults.
func (c *Compiler) WithTopK(k TopK) *Compiler {
	if k.HardCaps > 0 {
		c.topK.HardCaps = k.HardCaps
	}
	if k.SoftBias > 0 {
		c.topK.SoftBias = k.SoftBias
	}
	if k.BannedPatterns > 0 {
		c.topK.BannedPatterns = k.BannedPatterns
	}
	return c
}

// Compile runs one compile pass: load, deduplicate, rank, map to
// policies, idempotency-check, save. A semantically unchanged state is
// a no-op result, not an error.
func (c *Compiler) Compile(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	lookback := opts.LookbackDays
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}

	current, err := c.store.LoadCurrentState(ctx)
	if err != nil {
		c.record("error", start, 0)
		return nil, learning.NewCompileError("load_state", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -lookback)
	candidates, err := c.store.LoadCandidatesSince(ctx, cutoff)
	if err != nil {
		c.record("error", start, 0)
		return nil, learning.NewCompileError("load_candidates", err)
	}

	deduped := deduplicate(candidates)
	proposed := c.build(current, candidates, deduped, lookback)

	if current != nil && !opts.ForceNewVersion {
		if semanticSignature(proposed) == semanticSignature(current) {
			c.logger.Info("compile is a no-op, state unchanged",
				"version", current.Version,
				"candidates_seen", len(candidates),
			)
			c.record(string(OutcomeNoChange), start, current.Version)
			return &Result{
				Outcome:        OutcomeNoChange,
				CandidatesSeen: len(candidates),
				Deduplicated:   len(deduped),
			}, nil
		}
	}

	if err := c.store.SaveState(ctx, proposed); err != nil {
		c.record("error", start, 0)
		return nil, learning.NewCompileError("save", err)
	}

	c.logger.Info("learning state saved",
		"version", proposed.Version,
		"hard_caps", len(proposed.HardCaps),
		"soft_bias", len(proposed.SoftBias),
		"banned_patterns", len(proposed.BannedPatterns),
		"candidates_seen", len(candidates),
	)
	c.record(string(OutcomeSaved), start, proposed.Version)

	return &Result{
		Outcome:        OutcomeSaved,
		State:          proposed,
		CandidatesSeen: len(candidates),
		Deduplicated:   len(deduped),
	}, nil
}

func (c *Compiler) record(outcome string, start time.Time, version int) {
	if c.metrics != nil {
		c.metrics.RecordCompile(outcome, time.Since(start), version)
	}
}

// deduplicate collapses candidates by (category, level, proposal),
// keeping the higher confidence; ties keep the first seen. Output
// preserves first-seen order.
func deduplicate(candidates []learning.Candidate) []learning.Candidate {
	type slot struct {
		index int
		cand  learning.Candidate
	}

	byKey := make(map[string]slot, len(candidates))
	order := 0

	for _, cand := range candidates {
		key := fmt.Sprintf("%s|%s|%s", cand.Category, cand.Level, cand.Proposal)
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = slot{index: order, cand: cand}
			order++
			continue
		}
		if cand.Confidence > existing.cand.Confidence {
			byKey[key] = slot{index: existing.index, cand: cand}
		}
	}

	slots := make([]slot, 0, len(byKey))
	for _, s := range byKey {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].index < slots[j].index })

	out := make([]learning.Candidate, len(slots))
	for i, s := range slots {
		out[i] = s.cand
	}
	return out
}

// rank returns the category's candidates sorted by confidence
// descending (stable over first-seen order) and truncated to topK.
func rank(deduped []learning.Candidate, category learning.Category, topK int) []learning.Candidate {
	var items []learning.Candidate
	for _, cand := range deduped {
		if cand.Category == category {
			items = append(items, cand)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Confidence > items[j].Confidence
	})
	if len(items) > topK {
		items = items[:topK]
	}
	return items
}

// build constructs the proposed state from the deduplicated window.
func (c *Compiler) build(current *learning.State, all, deduped []learning.Candidate, lookback int) *learning.State {
	now := time.Now().UTC()

	var hardCaps []learning.HardCapPolicy
	for _, cand := range rank(deduped, learning.CategoryHardCap, c.topK.HardCaps) {
		hardCaps = append(hardCaps, learning.HardCapPolicy{
			PolicyID:    uuid.New().String(),
			Level:       cand.Level,
			Rule:        cand.Proposal,
			Evidence:    cand.Evidence,
			Confidence:  cand.Confidence,
			TTLDays:     ttlDays(cand),
			GeneratedAt: now,
		})
	}

	var softBias []learning.SoftBiasPolicy
	for _, cand := range rank(deduped, learning.CategorySoftBias, c.topK.SoftBias) {
		softBias = append(softBias, learning.SoftBiasPolicy{
			PolicyID:    uuid.New().String(),
			Level:       cand.Level,
			Rule:        cand.Proposal,
			Evidence:    cand.Evidence,
			Confidence:  cand.Confidence,
			TTLDays:     ttlDays(cand),
			GeneratedAt: now,
		})
	}

	var banned []learning.BannedPatternPolicy
	for _, cand := range rank(deduped, learning.CategoryBannedPattern, c.topK.BannedPatterns) {
		banned = append(banned, learning.BannedPatternPolicy{
			PolicyID:    uuid.New().String(),
			Level:       cand.Level,
			Signature:   cand.Proposal,
			Action:      learning.ActionDisallow,
			Evidence:    cand.Evidence,
			Confidence:  cand.Confidence,
			TTLDays:     ttlDays(cand),
			GeneratedAt: now,
		})
	}

	failSignatures := make([]string, 0, len(banned))
	for _, b := range banned {
		failSignatures = append(failSignatures, b.Signature)
	}

	nextVersion := 1
	if current != nil {
		nextVersion = current.Version + 1
	}

	return &learning.State{
		Version:     nextVersion,
		GeneratedAt: now,
		ContextSignatureSummary: fmt.Sprintf(
			"compiled_candidates: %d items; window=%dd", len(all), lookback),
		HardCaps:           hardCaps,
		SoftBias:           softBias,
		BannedPatterns:     banned,
		FailSignaturesTopK: failSignatures,
		DataGapWatchlist:   []string{},
		EvidenceIndex:      evidenceIndex(hardCaps, softBias, banned),
		TTLDays:            defaultStateTTLDays,
		HalfLifeDays:       defaultStateHalfLifeDays,
	}
}

func ttlDays(cand learning.Candidate) int {
	if cand.SuggestedTTLDays > 0 {
		return cand.SuggestedTTLDays
	}
	return defaultStateTTLDays
}

// evidenceIndex unions all evidence strings across the retained
// policies, order-stable by first occurrence.
func evidenceIndex(caps []learning.HardCapPolicy, bias []learning.SoftBiasPolicy, banned []learning.BannedPatternPolicy) []string {
	seen := make(map[string]bool)
	index := []string{}

	add := func(evidence []string) {
		for _, e := range evidence {
			if !seen[e] {
				seen[e] = true
				index = append(index, e)
			}
		}
	}

	for _, p := range caps {
		add(p.Evidence)
	}
	for _, p := range bias {
		add(p.Evidence)
	}
	for _, p := range banned {
		add(p.Evidence)
	}
	return index
}

package learning

import (
	"time"
)

// Category classifies a candidate or compiled policy.
type Category string

const (
	// CategoryHardCap proposes a position cap on an exposure.
	CategoryHardCap Category = "hard_cap"

	// CategorySoftBias proposes a directional sizing bias.
	CategorySoftBias Category = "soft_bias"

	// CategoryBannedPattern proposes disallowing a trading pattern.
	CategoryBannedPattern Category = "banned_pattern"
)

// Level is the scope a candidate or policy applies to.
type Level string

const (
	// LevelSystem applies to the whole system.
	LevelSystem Level = "system"

	// LevelSector applies to one sector.
	LevelSector Level = "sector"

	// LevelSymbol applies to a single symbol.
	LevelSymbol Level = "symbol"
)

// ActionDisallow is the only action a banned-pattern policy carries.
const ActionDisallow = "DISALLOW"

// EnforcementModeOff is the gate's enforcement mode for this milestone.
// Flipping this to an active mode is a breaking behavioral change and
// must be versioned explicitly.
const EnforcementModeOff = "off"

// Candidate is an unvetted, observer-proposed policy suggestion. It is
// created by exactly one observer, persisted once to the candidate log,
// and never mutated.
type Candidate struct {
	ID               string    `json:"candidate_id"`
	Category         Category  `json:"category"`
	Level            Level     `json:"level"`
	Proposal         string    `json:"proposal"`
	Evidence         []string  `json:"evidence"`
	Confidence       float64   `json:"confidence"` // [0, 1]
	SuggestedTTLDays int       `json:"suggested_ttl_days"`
	GeneratedAt      time.Time `json:"generated_at"` // UTC
	Source           string    `json:"source"`       // observer name
}

// HardCapPolicy is a compiled position-cap rule.
type HardCapPolicy struct {
	PolicyID     string    `json:"policy_id"`
	Level        Level     `json:"level"`
	Rule         string    `json:"rule"`
	Evidence     []string  `json:"evidence"`
	Confidence   float64   `json:"confidence"`
	TTLDays      int       `json:"ttl_days"`
	HalfLifeDays *int      `json:"half_life_days,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// SoftBiasPolicy is a compiled sizing-bias rule.
type SoftBiasPolicy struct {
	PolicyID     string    `json:"policy_id"`
	Level        Level     `json:"level"`
	Rule         string    `json:"rule"`
	Evidence     []string  `json:"evidence"`
	Confidence   float64   `json:"confidence"`
	TTLDays      int       `json:"ttl_days"`
	HalfLifeDays *int      `json:"half_life_days,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// BannedPatternPolicy is a compiled disallow rule. Action is always
// ActionDisallow.
type BannedPatternPolicy struct {
	PolicyID     string    `json:"policy_id"`
	Level        Level     `json:"level"`
	Signature    string    `json:"signature"`
	Action       string    `json:"action"`
	Notes        string    `json:"notes,omitempty"`
	Evidence     []string  `json:"evidence"`
	Confidence   float64   `json:"confidence"`
	TTLDays      int       `json:"ttl_days"`
	HalfLifeDays *int      `json:"half_life_days,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// State is the complete versioned set of compiled policies. Exactly
// one State is current at any time; all versions are retained in an
// append-only history. Policies inside a State are owned by it and are
// recreated fresh on every successful compile.
type State struct {
	Version                 int                   `json:"version"` // monotonic, >= 1
	GeneratedAt             time.Time             `json:"generated_at"`
	ContextSignatureSummary string                `json:"context_signature_summary"`
	HardCaps                []HardCapPolicy       `json:"policy_hard_caps"`
	SoftBias                []SoftBiasPolicy      `json:"policy_soft_bias"`
	BannedPatterns          []BannedPatternPolicy `json:"policy_banned_patterns"`
	FailSignaturesTopK      []string              `json:"fail_signatures_topK"`
	DataGapWatchlist        []string              `json:"data_gap_watchlist"`
	EvidenceIndex           []string              `json:"evidence_index"`
	TTLDays                 int                   `json:"ttl_days"`
	HalfLifeDays            int                   `json:"half_life_days"`
}

// GateContext is the read-only, advisory view of the current State.
// It is derived on demand and never persisted. Consumers may log it
// but must not branch execution on it while enforcement is off.
type GateContext struct {
	LearningVersion     int       `json:"learning_version"`
	LoadedAt            time.Time `json:"loaded_at"`
	HardCapsCount       int       `json:"hard_caps_count"`
	SoftBiasCount       int       `json:"soft_bias_count"`
	BannedPatternsCount int       `json:"banned_patterns_count"`
	SummarySignature    string    `json:"summary_signature"`
	EnforcementMode     string    `json:"enforcement_mode"` // always "off"
}

// Order is a proposed action from the action producer. Only Ticker is
// read by the evaluator; everything else is opaque routing metadata.
type Order struct {
	Ticker       string            `json:"ticker"`
	WorldviewRef string            `json:"worldview_ref,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ShadowOrderResult records what enforcement would have done to a
// single order. OrderID is generated per evaluation, not taken from
// the producer.
type ShadowOrderResult struct {
	OrderID           string   `json:"order_id"`
	Ticker            string   `json:"ticker"`
	WouldBlock        bool     `json:"would_block"`
	WouldReduceSize   bool     `json:"would_reduce_size"`
	WouldApplyBias    bool     `json:"would_apply_bias"`
	TriggeredPolicies []string `json:"triggered_policies"`
	SeverityScore     float64  `json:"severity_score"` // [0, 1], 1.0 = full block
	ReasonSummary     string   `json:"reason_summary"`
}

// ShadowReport is the immutable outcome of one shadow evaluation run.
type ShadowReport struct {
	ReportID        string              `json:"report_id"`
	RunID           string              `json:"run_id"`
	LearningVersion int                 `json:"learning_version"`
	EnforcementMode string              `json:"enforcement_mode"` // always "shadow"
	EvaluatedAt     time.Time           `json:"evaluated_at"`
	TotalOrders     int                 `json:"total_orders"`
	BlockedCount    int                 `json:"blocked_count"`
	ReducedCount    int                 `json:"reduced_count"`
	BiasedCount     int                 `json:"biased_count"`
	ShadowResults   []ShadowOrderResult `json:"shadow_results"`
}

// CategoryCount returns the number of policies in the State for the
// given category.
func (s *State) CategoryCount(c Category) int {
	switch c {
	case CategoryHardCap:
		return len(s.HardCaps)
	case CategorySoftBias:
		return len(s.SoftBias)
	case CategoryBannedPattern:
		return len(s.BannedPatterns)
	}
	return 0
}

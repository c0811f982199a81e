package observe

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tessera-hq/vesta/pkg/learning"
)

// ChurnObserver proposes a banned pattern for every sample showing
// frequent position reversals.
type ChurnObserver struct {
	// ReversalThreshold is the 7 day reversal count above which a
	// candidate is emitted. Default 3.
	ReversalThreshold int
}

// DefaultChurnReversalThreshold is the reversal count that triggers a
// banned-pattern candidate.
const DefaultChurnReversalThreshold = 3

// NewChurnObserver returns a churn observer with the given reversal
// threshold, or the default when threshold is not positive.
func NewChurnObserver(threshold int) *ChurnObserver {
	if threshold <= 0 {
		threshold = DefaultChurnReversalThreshold
	}
	return &ChurnObserver{ReversalThreshold: threshold}
}

// Name implements Observer.
func (o *ChurnObserver) Name() string { return "churn_observer" }

// Observe emits one symbol-level banned-pattern candidate per sample
// with reversals_7d above the threshold, at confidence 0.6 and a 7 day
// TTL.
func (o *ChurnObserver) Observe(ctx Context) ([]learning.Candidate, error) {
	var candidates []learning.Candidate

	for _, sample := range ctx.HistorySamples() {
		reversals, ok := sample.Int("reversals_7d")
		if !ok || reversals <= o.ReversalThreshold {
			continue
		}

		symbol := sample.String("symbol", "unknown")

		candidates = append(candidates, learning.Candidate{
			ID:               uuid.New().String(),
			Category:         learning.CategoryBannedPattern,
			Level:            learning.LevelSymbol,
			Proposal:         fmt.Sprintf("Ban symbol %s due to churn", symbol),
			Evidence:         []string{fmt.Sprintf("Reversals count %d > %d", reversals, o.ReversalThreshold)},
			Confidence:       0.6,
			SuggestedTTLDays: 7,
			GeneratedAt:      time.Now().UTC(),
			Source:           o.Name(),
		})
	}

	return candidates, nil
}

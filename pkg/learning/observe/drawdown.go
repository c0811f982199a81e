package observe

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tessera-hq/vesta/pkg/learning"
)

// DrawdownObserver proposes a hard cap for every sample whose drawdown
// exceeds the threshold.
type DrawdownObserver struct {
	// Threshold is the drawdown fraction above which a candidate is
	// emitted. Default 0.2.
	Threshold float64
}

// DefaultDrawdownThreshold is the drawdown fraction that triggers a
// hard-cap candidate.
const DefaultDrawdownThreshold = 0.2

// NewDrawdownObserver returns a drawdown observer with the given
// threshold, or the default when threshold is not positive.
func NewDrawdownObserver(threshold float64) *DrawdownObserver {
	if threshold <= 0 {
		threshold = DefaultDrawdownThreshold
	}
	return &DrawdownObserver{Threshold: threshold}
}

// Name implements Observer.
func (o *DrawdownObserver) Name() string { return "drawdown_observer" }

// Observe emits one symbol-level hard-cap candidate per sample with a
// drawdown above the threshold, at confidence 0.8 and a 30 day TTL.
func (o *DrawdownObserver) Observe(ctx Context) ([]learning.Candidate, error) {
	var candidates []learning.Candidate

	for _, sample := range ctx.HistorySamples() {
		drawdown, ok := sample.Float("drawdown")
		if !ok || drawdown <= o.Threshold {
			continue
		}

		symbol := sample.String("symbol", "unknown")
		date := sample.String("date", "unknown")

		candidates = append(candidates, learning.Candidate{
			ID:               uuid.New().String(),
			Category:         learning.CategoryHardCap,
			Level:            learning.LevelSymbol,
			Proposal:         fmt.Sprintf("Cap allocation for %s due to high drawdown", symbol),
			Evidence:         []string{fmt.Sprintf("Drawdown %v detected on %s", drawdown, date)},
			Confidence:       0.8,
			SuggestedTTLDays: 30,
			GeneratedAt:      time.Now().UTC(),
			Source:           o.Name(),
		})
	}

	return candidates, nil
}

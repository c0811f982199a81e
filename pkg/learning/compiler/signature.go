package compiler

import (
	"sort"
	"strings"

	"tessera-hq/vesta/pkg/learning"
)

// semanticSignature produces a comparison key over a state's content
// that ignores volatile fields: policy ids, timestamps, evidence
// ordering. Two states with the same signature carry the same rules
// and a recompile between them is a no-op.
//
// The key is the sorted set of (level, rule-or-signature) tuples per
// category, with the categories kept separate.
func semanticSignature(state *learning.State) string {
	caps := make([]string, 0, len(state.HardCaps))
	for _, p := range state.HardCaps {
		caps = append(caps, tuple(p.Level, p.Rule))
	}

	bias := make([]string, 0, len(state.SoftBias))
	for _, p := range state.SoftBias {
		bias = append(bias, tuple(p.Level, p.Rule))
	}

	bans := make([]string, 0, len(state.BannedPatterns))
	for _, p := range state.BannedPatterns {
		bans = append(bans, tuple(p.Level, p.Signature))
	}

	sort.Strings(caps)
	sort.Strings(bias)
	sort.Strings(bans)

	var b strings.Builder
	b.WriteString("caps:")
	b.WriteString(strings.Join(caps, ";"))
	b.WriteString("\nbias:")
	b.WriteString(strings.Join(bias, ";"))
	b.WriteString("\nbans:")
	b.WriteString(strings.Join(bans, ";"))
	return b.String()
}

func tuple(level learning.Level, body string) string {
	return string(level) + "\x1f" + body
}

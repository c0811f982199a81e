package observe

// Context is the opaque observation input: historical samples, prior
// run summaries, whatever the surrounding pipeline assembled. Observers
// only ever read from it; how it is produced is out of scope.
type Context map[string]interface{}

// Sample is one historical observation inside a context. The reference
// observers recognize the optional keys "drawdown", "reversals_7d",
// "symbol" and "date".
type Sample map[string]interface{}

// HistorySamples returns the "history_samples" list from the context,
// or nil if absent or of an unexpected shape.
func (c Context) HistorySamples() []Sample {
	raw, ok := c["history_samples"]
	if !ok {
		return nil
	}

	switch list := raw.(type) {
	case []Sample:
		return list
	case []interface{}:
		samples := make([]Sample, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]interface{}); ok {
				samples = append(samples, Sample(m))
			}
		}
		return samples
	case []map[string]interface{}:
		samples := make([]Sample, 0, len(list))
		for _, m := range list {
			samples = append(samples, Sample(m))
		}
		return samples
	}
	return nil
}

// Float reads a numeric field from the sample. JSON decoding yields
// float64 for all numbers; int values from hand-built contexts are
// accepted too.
func (s Sample) Float(key string) (float64, bool) {
	raw, ok := s[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Int reads an integer field from the sample.
func (s Sample) Int(key string) (int, bool) {
	f, ok := s.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// String reads a string field from the sample, returning fallback when
// the field is absent or not a string.
func (s Sample) String(key, fallback string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return fallback
}

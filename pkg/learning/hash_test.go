package learning

import (
	"strings"
	"testing"
)

// TestHashContent tests SHA-256 hashing of raw content.
func TestHashContent(t *testing.T) {
	// Known SHA-256 of "hello"
	expected := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := HashContent([]byte("hello")); got != expected {
		t.Errorf("HashContent(hello) = %s, want %s", got, expected)
	}
}

// TestHashContent_Empty tests that empty content hashes to empty string.
func TestHashContent_Empty(t *testing.T) {
	if got := HashContent(nil); got != "" {
		t.Errorf("HashContent(nil) = %q, want empty string", got)
	}
	if got := HashContent([]byte{}); got != "" {
		t.Errorf("HashContent(empty) = %q, want empty string", got)
	}
}

// TestHashString tests the string convenience wrapper.
func TestHashString(t *testing.T) {
	if HashString("hello") != HashContent([]byte("hello")) {
		t.Error("HashString and HashContent disagree on the same input")
	}
	if len(HashString("x")) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(HashString("x")))
	}
}

// TestCanonicalJSON_Deterministic tests that the same value always
// serializes to the same payload, regardless of map insertion order.
func TestCanonicalJSON_Deterministic(t *testing.T) {
	v := map[string]interface{}{
		"zeta":  1,
		"alpha": "x",
		"mid":   []int{1, 2},
	}

	first, err := CanonicalJSON(v)
	if err != nil {
		t.Fatalf("CanonicalJSON() failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := CanonicalJSON(v)
		if err != nil {
			t.Fatalf("CanonicalJSON() failed on iteration %d: %v", i, err)
		}
		if string(again) != string(first) {
			t.Fatalf("non-deterministic encoding: %s vs %s", first, again)
		}
	}

	// Map keys come out sorted
	if !strings.Contains(string(first), `"alpha"`) {
		t.Fatalf("unexpected payload: %s", first)
	}
	if strings.Index(string(first), `"alpha"`) > strings.Index(string(first), `"zeta"`) {
		t.Errorf("expected sorted map keys, got %s", first)
	}
}

// TestPayloadWithHash tests that the digest matches the payload.
func TestPayloadWithHash(t *testing.T) {
	cand := Candidate{
		ID:       "cand-1",
		Category: CategoryHardCap,
		Level:    LevelSymbol,
		Proposal: "Cap allocation for SPY due to high drawdown",
	}

	payload, digest, err := PayloadWithHash(cand)
	if err != nil {
		t.Fatalf("PayloadWithHash() failed: %v", err)
	}
	if digest != HashContent(payload) {
		t.Errorf("digest %s does not match payload hash %s", digest, HashContent(payload))
	}
	if !strings.Contains(string(payload), `"candidate_id":"cand-1"`) {
		t.Errorf("payload missing candidate id: %s", payload)
	}
}

// TestPayloadWithHash_Unserializable tests the error path.
func TestPayloadWithHash_Unserializable(t *testing.T) {
	_, _, err := PayloadWithHash(make(chan int))
	if err == nil {
		t.Error("expected error for unserializable value")
	}
}

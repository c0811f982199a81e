package learning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CanonicalJSON serializes v into the canonical payload form used for
// storage and integrity hashing. encoding/json gives a deterministic
// encoding for the model types here: struct fields in declaration
// order, map keys sorted.
func CanonicalJSON(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical json: %w", err)
	}
	return data, nil
}

// HashContent computes the SHA-256 hash of content and returns it as a
// hex-encoded string. Returns an empty string for empty content.
func HashContent(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// HashString is a convenience wrapper that hashes a string and returns
// the hex-encoded SHA-256 hash.
func HashString(content string) string {
	return HashContent([]byte(content))
}

// PayloadWithHash serializes v canonically and returns both the payload
// and its SHA-256 hex digest. Every stored row carries this pair.
func PayloadWithHash(v interface{}) (payload []byte, digest string, err error) {
	payload, err = CanonicalJSON(v)
	if err != nil {
		return nil, "", err
	}
	return payload, HashContent(payload), nil
}

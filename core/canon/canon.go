package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// CanonicalizeJSON returns the RFC 8785 (JCS) canonical form of JSON input.
func CanonicalizeJSON(input []byte) ([]byte, error) {
	return jcs.Transform(input)
}

// DigestJCS canonicalizes JSON (RFC 8785) and returns a sha256 hex digest.
func DigestJCS(input []byte) (string, error) {
	canonical, err := CanonicalizeJSON(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// HashObject digests any JSON-marshalable value in canonical form. Two
// structurally equal values hash identically regardless of map ordering.
// Values that cannot be marshaled are stringified and hashed as a JSON
// string so that hashing never blocks a decision.
func HashObject(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		raw, _ = json.Marshal(fmt.Sprint(value))
	}
	digest, err := DigestJCS(raw)
	if err != nil {
		sum := sha256.Sum256(raw)
		return hex.EncodeToString(sum[:])
	}
	return digest
}

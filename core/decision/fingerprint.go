package decision

import "github.com/davidahmann/verdict/core/canon"

// BuildFingerprints hashes the payload and governance configuration into a
// fingerprint set. Structurally equal inputs always hash identically; the
// model reference is carried verbatim, not hashed.
func BuildFingerprints(payload any, config any, modelRef string) Fingerprint {
	return Fingerprint{
		InputHash:  canon.HashObject(payload),
		ConfigHash: canon.HashObject(config),
		ModelHash:  modelRef,
	}
}

// Package canon provides deterministic canonical-JSON hashing used by the
// rejection side channel, the audit trail, and the submission hash chain.
package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Hash returns the lowercase hex SHA-256 digest of v after canonicalising it
// per RFC 8785 (JSON Canonicalization Scheme). Two values that are
// semantically equal JSON objects — regardless of map key order, or
// whitespace had they been marshalled independently — always hash alike.
func Hash(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canon: marshal: %w", err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canon: canonicalise: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// MustHash is Hash but panics on error. Reserved for call sites where v is
// known-marshalable (plain structs/maps of primitives), e.g. internal audit
// assembly where a marshal failure would indicate a programming error.
func MustHash(v any) string {
	h, err := Hash(v)
	if err != nil {
		panic(err)
	}
	return h
}

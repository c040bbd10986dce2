package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const fingerprintLen = 8

// maxPrefixLen bounds how much of a token type prefix ("glpat-") is shown.
const maxPrefixLen = 12

// Fingerprint returns the first 8 hex characters of SHA-256(secret).
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// Mask hides secret behind its type prefix and fingerprint.
func Mask(secret string) string {
	if secret == "" {
		return "(empty)"
	}

	prefix := ""
	if i := strings.Index(secret, "-"); i >= 0 && i+1 <= maxPrefixLen && i+1 < len(secret) {
		prefix = secret[:i+1]
	}
	return prefix + "**** (" + Fingerprint(secret) + ")"
}

package util

import (
	"crypto/sha256"
	"encoding/hex"
)

const fingerprintLen = 16

// Fingerprint returns a short, stable digest of a caller key so logs can
// correlate requests without carrying emails or guest ids.
func Fingerprint(key string) string {
	if key == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey returns a filesystem-safe identifier for a user ID. Uploaded
// deck objects are namespaced under this hash rather than the raw ID, which
// may contain provider prefixes like "google:" or "guest:".
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

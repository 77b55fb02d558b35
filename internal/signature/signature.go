// Package signature verifies shop webhook signatures: HMAC-SHA256 over the
// raw request body, hex-encoded, optionally prefixed with "sha256=".
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Verify compares the presented signature against the HMAC of the body.
// Constant-time on the digest comparison. An empty presented signature never
// verifies; skipping verification when no secret is configured is the
// caller's decision, not this package's.
func Verify(rawBody []byte, secret, presented string) bool {
	if presented == "" {
		return false
	}
	if len(presented) >= 7 && strings.EqualFold(presented[:7], "sha256=") {
		presented = presented[7:]
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(presented))
}

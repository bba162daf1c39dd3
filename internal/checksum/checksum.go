// Package checksum fingerprints rendered articles so hand edits can be detected.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Match reports whether data still hashes to sum.
func Match(data []byte, sum string) bool {
	if sum == "" {
		return false
	}
	return Sum(data) == sum
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the SHA-256 of data as 64 hex characters. Import documents
// are keyed by the hash of their raw bytes, and [FileCache] names its
// files after the hash of the key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

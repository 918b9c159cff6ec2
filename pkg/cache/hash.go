package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key derives a fixed-length storage key from a prefix and arbitrary
// parts: prefix + ":" + sha256 of the parts encoded as a JSON array.
// Entity names can be long and contain any character, so they never
// appear in keys directly.
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds "prefix:hex(sha256(json(parts)))". Hashing keeps file
// paths, settings structs, and long Italian titles out of the key itself
// while still telling every distinct input apart.
func hashKey(prefix string, parts ...any) string {
	blob, _ := json.Marshal(parts)
	return prefix + ":" + Hash(blob)
}

// Hash returns the full hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

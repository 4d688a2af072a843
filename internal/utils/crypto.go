package utils

import (
	"crypto/sha256"
	"encoding/binary"
)

// HashFraction maps data onto [0, 1) deterministically. Used to synthesize
// stable per-book placeholder prices and ratings.
func HashFraction(data string) float64 {
	hash := sha256.Sum256([]byte(data))
	v := binary.BigEndian.Uint64(hash[:8])
	return float64(v) / float64(^uint64(0))
}

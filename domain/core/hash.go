package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// shortHashLen is the prefix length used when a fingerprint is shown in logs
const shortHashLen = 12

// Hash is the hex SHA-256 fingerprint of the data a report was computed from. Two
// reports with the same Hash analysed identical scores.
type Hash string

// NewHash fingerprints a canonical encoding of the report input
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

func (h Hash) String() string {
	return string(h)
}

// Short returns the leading characters of the fingerprint
func (h Hash) Short() string {
	if len(h) <= shortHashLen {
		return string(h)
	}
	return string(h[:shortHashLen])
}

// IsEmpty reports whether no fingerprint was recorded
func (h Hash) IsEmpty() bool {
	return h == ""
}

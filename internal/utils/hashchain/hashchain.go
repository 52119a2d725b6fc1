// Package hashchain implements the tamper-evident chaining applied to ledger
// entries. Each entry's hash covers its serialized content plus the hash of the
// entry stored immediately before it, so any retroactive edit breaks every
// downstream hash.
package hashchain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// GenesisHash is the previous-hash value of the very first entry in a ledger.
var GenesisHash = strings.Repeat("0", 64)

// Compute returns the hex-encoded sha256 of the payload chained to prevHash.
func Compute(payload string, prevHash string) string {
	sum := sha256.Sum256([]byte(prevHash + "|" + payload))
	return hex.EncodeToString(sum[:])
}

// Link is one element of a stored chain, as read back from the ledger.
type Link struct {
	Payload      string
	PreviousHash string
	Hash         string
}

// Verify walks links in storage order and recomputes every hash.
// It returns the index of the first link whose stored hash or previous-hash
// pointer does not match the recomputation, or -1 when the chain is intact.
func Verify(links []Link) int {
	prev := GenesisHash
	for i, l := range links {
		if l.PreviousHash != prev {
			return i
		}
		if Compute(l.Payload, prev) != l.Hash {
			return i
		}
		prev = l.Hash
	}
	return -1
}

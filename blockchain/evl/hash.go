// File: blockchain/evl/hash.go
package evl

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"

	"voting-ledger/models"
)

// CalculateHash returns the SHA-256 digest of a block's canonical encoding as
// a 64-character hex string.
//
// The canonical encoding is the block's JSON form with the fixed field order
// declared on models.Block (index, timestamp, votes, proof, previous_hash).
// Marshaling structs, never maps, keeps the byte stream deterministic, so the
// same block always hashes to the same digest.
func CalculateHash(block models.Block) string {
	data, err := json.Marshal(block)
	if err != nil {
		log.Printf("Warning: Failed to marshal block for hashing: %v", err)
		return ""
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

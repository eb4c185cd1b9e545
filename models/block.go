// File: models/block.go
package models

// Block is an immutable, sealed batch of vote records plus chaining metadata.
//
// The JSON field order below is the canonical wire encoding: the block hash is
// computed over exactly this encoding, so the order must never change without
// an explicit chain version bump.
type Block struct {
	Index        uint64       `json:"index"`
	Timestamp    float64      `json:"timestamp"`
	Votes        []VoteRecord `json:"votes"`
	Proof        uint64       `json:"proof"`
	PreviousHash string       `json:"previous_hash"`
}

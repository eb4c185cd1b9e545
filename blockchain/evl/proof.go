// File: blockchain/evl/proof.go
package evl

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

const (
	// DefaultDifficulty is the number of leading zero hex characters a proof
	// hash must have. Expected search cost is 16^difficulty hash evaluations.
	DefaultDifficulty = 4

	// DefaultMaxIterations bounds the proof search so a seal never hangs the
	// caller. Generous next to the ~65536 expected attempts at difficulty 4.
	DefaultMaxIterations = 50_000_000
)

// ErrProofNotFound is returned when the proof search exhausts its iteration
// cap without finding a valid proof. The pending queue is left untouched.
var ErrProofNotFound = errors.New("no valid proof found within iteration limit")

// ProofEngine runs the Proof-of-Vote search that seals each block.
type ProofEngine struct {
	maxIterations uint64
	target        string
}

// NewProofEngine creates a proof engine with the given difficulty (leading
// zero hex characters) and iteration cap. Non-positive arguments fall back to
// the defaults.
func NewProofEngine(difficulty int, maxIterations uint64) *ProofEngine {
	if difficulty <= 0 {
		difficulty = DefaultDifficulty
	}
	if maxIterations == 0 {
		maxIterations = DefaultMaxIterations
	}

	return &ProofEngine{
		maxIterations: maxIterations,
		target:        strings.Repeat("0", difficulty),
	}
}

// Seal searches for the smallest proof satisfying ValidProof against the
// previous block's proof. The search is exhaustive and increasing from zero,
// so the result is reproducible for a given previous proof and difficulty.
// This is CPU-bound; callers should run it off any latency-sensitive path.
func (pe *ProofEngine) Seal(lastProof uint64) (uint64, error) {
	for proof := uint64(0); proof < pe.maxIterations; proof++ {
		if pe.ValidProof(lastProof, proof) {
			return proof, nil
		}
	}
	return 0, ErrProofNotFound
}

// ValidProof reports whether the SHA-256 hash of the concatenated decimal
// representations of lastProof and proof starts with the difficulty target.
// Pure function: no state, no side effects.
func (pe *ProofEngine) ValidProof(lastProof, proof uint64) bool {
	guess := strconv.FormatUint(lastProof, 10) + strconv.FormatUint(proof, 10)
	guessHash := sha256.Sum256([]byte(guess))
	return strings.HasPrefix(hex.EncodeToString(guessHash[:]), pe.target)
}

// File: anonymizer/anonymizer.go
package anonymizer

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"voting-ledger/models"
)

// HandleLength is the number of hex characters in a voter handle.
const HandleLength = 16

// Anonymize derives a one-way voter handle from identity material and a salt.
// The handle is a truncated Keccak-256 digest: short enough to keep blocks
// readable, long enough that collisions are negligible, and infeasible to
// invert back to the identity.
//
// The salt must carry per-submission entropy (see NewSubmissionSalt); a
// coarse value like a timestamp lets two handles from the same identity be
// linked or collide.
func Anonymize(identity, salt string) string {
	digest := crypto.Keccak256([]byte(identity + salt))
	return hex.EncodeToString(digest)[:HandleLength]
}

// NewSubmissionSalt returns fresh random entropy for a single handle
// derivation.
func NewSubmissionSalt() string {
	return uuid.New().String()
}

// ShuffleVotes returns a mixed copy of a vote batch so the sealed block does
// not preserve submission order. Fisher-Yates with crypto/rand; the input is
// left untouched.
func ShuffleVotes(votes []models.VoteRecord) []models.VoteRecord {
	shuffled := make([]models.VoteRecord, len(votes))
	copy(shuffled, votes)

	for i := len(shuffled) - 1; i > 0; i-- {
		j, _ := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		shuffled[i], shuffled[j.Int64()] = shuffled[j.Int64()], shuffled[i]
	}

	return shuffled
}

// File: anonymizer/anonymizer_test.go
package anonymizer

import (
	"regexp"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-ledger/models"
)

var handlePattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

func TestAnonymizeProducesHexHandle(t *testing.T) {
	handle := Anonymize("voter-42", "salt")

	assert.Len(t, handle, HandleLength)
	assert.Regexp(t, handlePattern, handle)
}

func TestAnonymizeIsDeterministic(t *testing.T) {
	assert.Equal(t, Anonymize("voter-42", "salt"), Anonymize("voter-42", "salt"))
}

func TestAnonymizeIsSaltSensitive(t *testing.T) {
	first := Anonymize("voter-42", NewSubmissionSalt())
	second := Anonymize("voter-42", NewSubmissionSalt())

	assert.NotEqual(t, first, second,
		"same identity with fresh salts must not produce linkable handles")
}

func TestAnonymizeSeparatesIdentities(t *testing.T) {
	assert.NotEqual(t, Anonymize("voter-1", "salt"), Anonymize("voter-2", "salt"))
}

func TestNewSubmissionSaltIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		salt := NewSubmissionSalt()
		require.False(t, seen[salt], "duplicate salt %s", salt)
		seen[salt] = true
	}
}

func TestShuffleVotesPreservesBatch(t *testing.T) {
	votes := make([]models.VoteRecord, 20)
	for i := range votes {
		votes[i] = models.VoteRecord{
			VoterHandle:    Anonymize("voter", NewSubmissionSalt()),
			SubmissionTime: float64(i),
		}
	}
	original := make([]models.VoteRecord, len(votes))
	copy(original, votes)

	shuffled := ShuffleVotes(votes)

	require.Len(t, shuffled, len(votes))
	assert.Equal(t, original, votes, "input batch must not be modified")
	assert.ElementsMatch(t, votes, shuffled)
}

func TestShuffleVotesSmallBatches(t *testing.T) {
	assert.Empty(t, ShuffleVotes(nil))

	one := []models.VoteRecord{{VoterHandle: "a1b2c3d4e5f60718"}}
	assert.Equal(t, one, ShuffleVotes(one))
}

func TestShuffleVotesChangesOrder(t *testing.T) {
	votes := make([]models.VoteRecord, 64)
	for i := range votes {
		votes[i] = models.VoteRecord{SubmissionTime: float64(i)}
	}

	shuffled := ShuffleVotes(votes)

	times := make([]float64, len(shuffled))
	for i, vote := range shuffled {
		times[i] = vote.SubmissionTime
	}
	// 64 elements staying in submission order has probability 1/64!.
	assert.False(t, sort.Float64sAreSorted(times), "shuffle left the batch in submission order")
}

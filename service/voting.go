// File: service/voting.go
package service

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"voting-ledger/anonymizer"
	"voting-ledger/blockchain/evl"
	"voting-ledger/encryption"
	"voting-ledger/models"
	"voting-ledger/registry"
)

var (
	ErrSessionEnded     = errors.New("voting session has ended")
	ErrInvalidCandidate = errors.New("invalid candidate selection")
)

// VotingService ties the core pieces together for the calling layer: it
// anonymizes the voter, encrypts the ballot, submits the envelope to the
// ledger and marks the voter in the registry. The ledger itself stays
// content-agnostic and never sees the voter's identity.
type VotingService struct {
	ledger        *evl.EVL
	cryptoService *encryption.CryptoService
	registry      registry.VoterRegistry
	session       *VotingSession
	metrics       *MetricsCollector
	tallyPubKey   *ecdsa.PublicKey
	candidates    []string
}

func NewVotingService(
	ledger *evl.EVL,
	cryptoService *encryption.CryptoService,
	voterRegistry registry.VoterRegistry,
	tallyPubKey *ecdsa.PublicKey,
	candidates []string,
	session *VotingSession,
) *VotingService {
	return &VotingService{
		ledger:        ledger,
		cryptoService: cryptoService,
		registry:      voterRegistry,
		session:       session,
		metrics:       NewMetricsCollector(),
		tallyPubKey:   tallyPubKey,
		candidates:    candidates,
	}
}

// CastVote records one encrypted vote for an authenticated voter and returns
// the index of the block the vote will land in.
//
// Any failure before the ledger submit leaves the voter unmarked so they can
// retry; the registry is only updated once the envelope is queued.
func (vs *VotingService) CastVote(voterID, candidate string) (uint64, error) {
	if vs.session != nil && !vs.session.IsActive() {
		return 0, ErrSessionEnded
	}

	if !vs.registry.IsRegistered(voterID) {
		return 0, registry.ErrNotRegistered
	}
	if vs.registry.HasVoted(voterID) {
		return 0, registry.ErrAlreadyVoted
	}

	if !vs.validCandidate(candidate) {
		return 0, ErrInvalidCandidate
	}

	payload := models.VotePayload{
		Candidate: candidate,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal ballot: %v", err)
	}

	envelope, err := vs.cryptoService.Encrypt(plaintext, vs.tallyPubKey)
	if err != nil {
		return 0, err
	}

	// Fresh salt per submission: two votes by the same identity must not
	// produce linkable handles.
	handle := anonymizer.Anonymize(voterID, anonymizer.NewSubmissionSalt())

	blockIndex := vs.ledger.Submit(envelope, handle)
	vs.metrics.RecordVote()

	if err := vs.registry.MarkVoted(voterID); err != nil {
		return blockIndex, fmt.Errorf("vote recorded but voter status not updated: %w", err)
	}

	return blockIndex, nil
}

// SealBlock seals the pending votes into a new block.
func (vs *VotingService) SealBlock() (models.Block, error) {
	start := time.Now()

	block, err := vs.ledger.Seal()
	if err != nil {
		return models.Block{}, err
	}

	vs.metrics.RecordSeal(time.Since(start))
	return block, nil
}

// Results validates and tallies the current chain with the tally authority's
// private key, using the given integrity policy.
func (vs *VotingService) Results(privateKey *ecdsa.PrivateKey, config TallyConfig) (*TallyResults, error) {
	tally := NewTallyService(vs.cryptoService, vs.ledger, config)

	start := time.Now()
	results, err := tally.Tally(vs.ledger.Chain(), privateKey, vs.candidates)
	if err != nil {
		return nil, err
	}

	vs.metrics.RecordCount(time.Since(start))
	return results, nil
}

// Metrics returns a snapshot of the service's operation counters.
func (vs *VotingService) Metrics() MetricsResponse {
	return vs.metrics.Snapshot()
}

func (vs *VotingService) validCandidate(candidate string) bool {
	for _, c := range vs.candidates {
		if c == candidate {
			return true
		}
	}
	return false
}

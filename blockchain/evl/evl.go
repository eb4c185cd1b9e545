// File: blockchain/evl/evl.go
package evl

import (
	"errors"
	"log"
	"sync"
	"time"

	"voting-ledger/models"
)

// Genesis block constants. The genesis block is fixed so every chain starts
// from the same anchor.
const (
	GenesisProof        = 100
	GenesisPreviousHash = "1"
)

// ErrChainIntegrity is returned by callers that choose to halt on a failed
// chain validation. Validate itself never returns an error.
var ErrChainIntegrity = errors.New("chain integrity violation")

// Store persists a chain snapshot. The ledger works entirely in memory; a
// store only adds durability on top.
type Store interface {
	SaveChain(chain []models.Block) error
}

// Mixer reorders a batch of vote records before they are sealed into a block,
// obscuring submission order.
type Mixer func(votes []models.VoteRecord) []models.VoteRecord

// Config carries the tunables for a ledger instance. The zero value is valid
// and selects the defaults.
type Config struct {
	Difficulty    int    // leading zero hex characters required of a proof
	MaxIterations uint64 // proof search cap, 0 means DefaultMaxIterations
	Mixer         Mixer  // optional, applied to the snapshot before sealing
}

// EVL is the Encrypted Vote Ledger: an append-only hash chain of sealed vote
// blocks plus the queue of votes waiting for the next seal. It is the single
// authority over both; there is no peer sync or fork resolution.
type EVL struct {
	mu      sync.Mutex // guards chain and pending
	sealMu  sync.Mutex // serializes Seal calls
	chain   []models.Block
	pending []models.VoteRecord
	pov     *ProofEngine
	mixer   Mixer
	store   Store
}

// New creates a ledger with its genesis block already in place. A nil store
// keeps the chain purely in memory.
func New(config Config, store Store) *EVL {
	genesis := models.Block{
		Index:        1,
		Timestamp:    now(),
		Votes:        []models.VoteRecord{},
		Proof:        GenesisProof,
		PreviousHash: GenesisPreviousHash,
	}

	return &EVL{
		chain:   []models.Block{genesis},
		pending: make([]models.VoteRecord, 0),
		pov:     NewProofEngine(config.Difficulty, config.MaxIterations),
		mixer:   config.Mixer,
		store:   store,
	}
}

// Submit queues an encrypted vote for inclusion in the next sealed block and
// returns the index of the block the vote is projected to land in. The ledger
// is content-agnostic: the envelope is stored as received.
func (l *EVL) Submit(envelope models.EncryptedEnvelope, voterHandle string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, models.VoteRecord{
		Envelope:       envelope,
		VoterHandle:    voterHandle,
		SubmissionTime: now(),
	})

	return l.chain[len(l.chain)-1].Index + 1
}

// Seal mines a proof for the current pending votes and appends the resulting
// block to the chain.
//
// The pending queue is snapshotted under the lock, the proof search runs
// outside it so submissions stay possible while mining, and the lock is
// re-entered only to append the block and carry votes submitted during the
// search over to the next queue. On ErrProofNotFound nothing is lost: the
// queue is untouched and a later Seal picks the votes up again.
func (l *EVL) Seal() (models.Block, error) {
	l.sealMu.Lock()
	defer l.sealMu.Unlock()

	l.mu.Lock()
	last := l.chain[len(l.chain)-1]
	snapshot := make([]models.VoteRecord, len(l.pending))
	copy(snapshot, l.pending)
	l.mu.Unlock()

	proof, err := l.pov.Seal(last.Proof)
	if err != nil {
		return models.Block{}, err
	}

	if l.mixer != nil {
		snapshot = l.mixer(snapshot)
	}

	block := models.Block{
		Index:        last.Index + 1,
		Timestamp:    now(),
		Votes:        snapshot,
		Proof:        proof,
		PreviousHash: CalculateHash(last),
	}

	l.mu.Lock()
	// Submit only appends, so the snapshot is still the queue's prefix.
	l.pending = append(make([]models.VoteRecord, 0), l.pending[len(snapshot):]...)
	l.chain = append(l.chain, block)
	l.mu.Unlock()

	if l.store != nil {
		if err := l.store.SaveChain(l.Chain()); err != nil {
			log.Printf("Warning: Failed to save chain: %v", err)
		}
	}

	return block, nil
}

// Validate checks hash linkage and proof validity across the given chain.
// It is a pure boolean oracle: callers decide what an invalid chain means.
// Chains with at most one block are valid.
func (l *EVL) Validate(chain []models.Block) bool {
	for i := 1; i < len(chain); i++ {
		if chain[i].PreviousHash != CalculateHash(chain[i-1]) {
			log.Printf("Invalid chain: hash link broken at block %d", i)
			return false
		}

		if !l.pov.ValidProof(chain[i-1].Proof, chain[i].Proof) {
			log.Printf("Invalid chain: invalid proof at block %d", i)
			return false
		}
	}
	return true
}

// LastBlock returns the most recently sealed block.
func (l *EVL) LastBlock() models.Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chain[len(l.chain)-1]
}

// Chain returns a snapshot copy of the chain, safe to walk while sealing
// continues.
func (l *EVL) Chain() []models.Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	chain := make([]models.Block, len(l.chain))
	copy(chain, l.chain)
	return chain
}

// PendingVotes returns a snapshot copy of the votes queued for the next seal.
func (l *EVL) PendingVotes() []models.VoteRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	pending := make([]models.VoteRecord, len(l.pending))
	copy(pending, l.pending)
	return pending
}

func now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

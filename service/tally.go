// File: service/tally.go
package service

import (
	"crypto/ecdsa"
	"encoding/json"
	"log"
	"math"

	"voting-ledger/blockchain/evl"
	"voting-ledger/encryption"
	"voting-ledger/models"
)

// TallyConfig sets the integrity policy for a tally run. Whether counting
// should proceed over a chain that fails validation is a policy question, so
// it is explicit configuration rather than a hard-coded choice. The zero
// value validates first and, on failure, warns and proceeds.
type TallyConfig struct {
	SkipValidation bool // count without checking the chain first
	HaltOnInvalid  bool // return evl.ErrChainIntegrity instead of warning
}

// TallyService decrypts every recorded vote in a chain and produces the
// aggregate counts.
type TallyService struct {
	cryptoService *encryption.CryptoService
	ledger        *evl.EVL
	config        TallyConfig
}

// TallyResults is the aggregate outcome of a tally run.
type TallyResults struct {
	Counts      map[string]int     `json:"counts"`
	Percentages map[string]float64 `json:"percentages"`
	TotalVotes  int                `json:"total_votes"`
	Skipped     int                `json:"skipped_votes"`
}

func NewTallyService(cryptoService *encryption.CryptoService, ledger *evl.EVL, config TallyConfig) *TallyService {
	return &TallyService{
		cryptoService: cryptoService,
		ledger:        ledger,
		config:        config,
	}
}

// Tally walks the chain, decrypts each vote with the tally authority's
// private key and counts the candidates in the given set.
//
// The genesis block carries no votes and is skipped. A record that fails to
// decrypt, carries a malformed payload or names an unknown candidate is
// excluded and reported in Skipped; a tampered vote only ever reduces the
// total, it is never fatal and never miscounted.
func (ts *TallyService) Tally(chain []models.Block, privateKey *ecdsa.PrivateKey, candidates []string) (*TallyResults, error) {
	if !ts.config.SkipValidation && !ts.ledger.Validate(chain) {
		if ts.config.HaltOnInvalid {
			return nil, evl.ErrChainIntegrity
		}
		log.Printf("Warning: chain failed integrity validation, tallying anyway")
	}

	counts := make(map[string]int, len(candidates))
	for _, candidate := range candidates {
		counts[candidate] = 0
	}

	total := 0
	skipped := 0

	for i := 1; i < len(chain); i++ {
		for _, vote := range chain[i].Votes {
			plaintext, err := ts.cryptoService.Decrypt(vote.Envelope, privateKey)
			if err != nil {
				skipped++
				continue
			}

			var payload models.VotePayload
			if err := json.Unmarshal(plaintext, &payload); err != nil {
				skipped++
				continue
			}

			if _, ok := counts[payload.Candidate]; !ok {
				skipped++
				continue
			}

			counts[payload.Candidate]++
			total++
		}
	}

	return &TallyResults{
		Counts:      counts,
		Percentages: percentages(counts, total),
		TotalVotes:  total,
		Skipped:     skipped,
	}, nil
}

// percentages computes each candidate's share of the total, rounded to one
// decimal. All zero when no votes were counted.
func percentages(counts map[string]int, total int) map[string]float64 {
	result := make(map[string]float64, len(counts))
	for candidate, count := range counts {
		if total == 0 {
			result[candidate] = 0
			continue
		}
		result[candidate] = math.Round(float64(count)/float64(total)*1000) / 10
	}
	return result
}

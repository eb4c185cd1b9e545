// File: storage/chain_store.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"voting-ledger/models"
)

// ChainStore persists a vote chain as a single JSON file. The ledger itself
// is an in-memory structure; the store is the durability layer the
// surrounding application plugs in underneath it.
type ChainStore struct {
	path string
	mu   sync.Mutex
}

// NewChainStore creates the data directory if needed and returns a store
// writing to vote_chain.json inside it.
func NewChainStore(dataDir string) (*ChainStore, error) {
	absPath, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %v", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	return &ChainStore{
		path: filepath.Join(absPath, "vote_chain.json"),
	}, nil
}

// SaveChain writes the full chain snapshot. The write goes to a temporary
// file first and is renamed into place, so a crash never leaves a truncated
// chain file behind.
func (s *ChainStore) SaveChain(chain []models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(chain) == 0 {
		return fmt.Errorf("cannot save empty chain")
	}

	data, err := json.MarshalIndent(chain, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chain: %v", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write chain file: %v", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save chain file: %v", err)
	}

	return nil
}

// LoadChain reads the persisted chain. A missing file is not an error: it
// returns a nil chain so the caller can start fresh.
func (s *ChainStore) LoadChain() ([]models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read chain file: %v", err)
	}

	var chain []models.Block
	if err := json.Unmarshal(data, &chain); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chain: %v", err)
	}

	return chain, nil
}

// File: registry/registry.go
package registry

import (
	"errors"
	"sync"
	"time"
)

// VoterRegistry is the credential-layer collaborator the ledger core relies
// on but never mutates: it answers whether an authenticated identity has
// already voted, and the caller marks the identity after a successful submit.
type VoterRegistry interface {
	Register(voterID string) error
	IsRegistered(voterID string) bool
	HasVoted(voterID string) bool
	MarkVoted(voterID string) error
}

var (
	ErrAlreadyRegistered = errors.New("voter already registered")
	ErrAlreadyVoted      = errors.New("voter has already voted")
	ErrNotRegistered     = errors.New("voter not registered")
)

type voterStatus struct {
	RegisteredAt time.Time `json:"registered_at"`
	HasVoted     bool      `json:"has_voted"`
}

// InMemoryRegistry implements VoterRegistry for a single-process election.
type InMemoryRegistry struct {
	mu     sync.RWMutex
	voters map[string]*voterStatus
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		voters: make(map[string]*voterStatus),
	}
}

func (r *InMemoryRegistry) Register(voterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.voters[voterID]; exists {
		return ErrAlreadyRegistered
	}

	r.voters[voterID] = &voterStatus{RegisteredAt: time.Now()}
	return nil
}

func (r *InMemoryRegistry) IsRegistered(voterID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.voters[voterID]
	return exists
}

func (r *InMemoryRegistry) HasVoted(voterID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status, exists := r.voters[voterID]
	return exists && status.HasVoted
}

func (r *InMemoryRegistry) MarkVoted(voterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, exists := r.voters[voterID]
	if !exists {
		return ErrNotRegistered
	}
	if status.HasVoted {
		return ErrAlreadyVoted
	}

	status.HasVoted = true
	return nil
}

// Registered returns the number of registered voters.
func (r *InMemoryRegistry) Registered() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.voters)
}

// Voted returns the number of voters marked as having voted.
func (r *InMemoryRegistry) Voted() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	voted := 0
	for _, status := range r.voters {
		if status.HasVoted {
			voted++
		}
	}
	return voted
}

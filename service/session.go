// File: service/session.go
package service

import (
	"sync"
	"time"
)

// VotingSession is the time window during which votes are accepted. Sealing
// and tallying are not bound to it; only CastVote checks it.
type VotingSession struct {
	startTime time.Time
	endTime   time.Time
	isActive  bool
	mu        sync.RWMutex
}

func NewVotingSession(duration time.Duration) *VotingSession {
	now := time.Now()
	return &VotingSession{
		startTime: now,
		endTime:   now.Add(duration),
		isActive:  true,
	}
}

func (vs *VotingSession) IsActive() bool {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.isActive && time.Now().Before(vs.endTime)
}

// Remaining reports how long the session still accepts votes. Zero once the
// window is closed or ended.
func (vs *VotingSession) Remaining() time.Duration {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	if !vs.isActive {
		return 0
	}
	remaining := time.Until(vs.endTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// End closes the session early.
func (vs *VotingSession) End() {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.isActive = false
}

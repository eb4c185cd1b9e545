// File: service/metrics.go
package service

import (
	"sync"
	"time"
)

// MetricsCollector tracks operation counters for a voting run: votes
// accepted, blocks sealed with their mining time, and tally duration.
type MetricsCollector struct {
	mu sync.RWMutex

	voteCount int

	sealCount     int
	sealTotalTime time.Duration

	countingCount int
	countingTime  time.Duration
}

// OperationMetrics contains timing information for an operation.
type OperationMetrics struct {
	Count          int   `json:"count"`
	ProcessingTime int64 `json:"processing_time_ms"`
}

// MetricsResponse provides the metrics for all operations.
type MetricsResponse struct {
	Votes    OperationMetrics `json:"votes"`
	Sealing  OperationMetrics `json:"sealing"`
	Counting OperationMetrics `json:"counting"`
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

func (mc *MetricsCollector) RecordVote() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.voteCount++
}

func (mc *MetricsCollector) RecordSeal(duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.sealCount++
	mc.sealTotalTime += duration
}

func (mc *MetricsCollector) RecordCount(duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.countingCount++
	mc.countingTime += duration
}

// Snapshot returns a consistent copy of all counters.
func (mc *MetricsCollector) Snapshot() MetricsResponse {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return MetricsResponse{
		Votes: OperationMetrics{
			Count: mc.voteCount,
		},
		Sealing: OperationMetrics{
			Count:          mc.sealCount,
			ProcessingTime: mc.sealTotalTime.Milliseconds(),
		},
		Counting: OperationMetrics{
			Count:          mc.countingCount,
			ProcessingTime: mc.countingTime.Milliseconds(),
		},
	}
}

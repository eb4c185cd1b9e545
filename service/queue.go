// File: service/queue.go
package service

import (
	"log"
	"sync"
)

// QueueProcessor funnels vote submissions through a single worker goroutine,
// so callers that prefer an actor model over shared locks can hand the
// ledger to one owner and fire submissions asynchronously.
type QueueProcessor struct {
	votingService *VotingService
	voteCh        chan *VoteRequest
	processingWg  sync.WaitGroup
	shutdownCh    chan struct{}
}

// VoteRequest represents a queued vote casting request.
type VoteRequest struct {
	VoterID   string
	Candidate string
	ResultCh  chan<- *ProcessingResult
}

// ProcessingResult contains the result of an asynchronous vote submission.
type ProcessingResult struct {
	Success      bool
	VoterID      string
	BlockIndex   uint64
	ErrorMessage string
}

func NewQueueProcessor(votingService *VotingService, queueSize int) *QueueProcessor {
	return &QueueProcessor{
		votingService: votingService,
		voteCh:        make(chan *VoteRequest, queueSize),
		shutdownCh:    make(chan struct{}),
	}
}

// Start begins processing queued votes.
func (qp *QueueProcessor) Start() {
	qp.processingWg.Add(1)
	go qp.voteWorker()
}

// Stop gracefully shuts down the queue processor. Queued but unprocessed
// requests receive a failure result.
func (qp *QueueProcessor) Stop() {
	close(qp.shutdownCh)
	qp.processingWg.Wait()

	for {
		select {
		case req := <-qp.voteCh:
			req.ResultCh <- &ProcessingResult{
				Success:      false,
				VoterID:      req.VoterID,
				ErrorMessage: "queue processor stopped",
			}
			close(req.ResultCh)
		default:
			return
		}
	}
}

// QueueVote adds a vote casting request to the processing queue. A full
// queue fails fast instead of blocking the caller.
func (qp *QueueProcessor) QueueVote(voterID, candidate string) <-chan *ProcessingResult {
	resultCh := make(chan *ProcessingResult, 1)
	select {
	case qp.voteCh <- &VoteRequest{
		VoterID:   voterID,
		Candidate: candidate,
		ResultCh:  resultCh,
	}:
		return resultCh
	default:
		log.Printf("Warning: vote queue is full, request for voter %s rejected", voterID)
		resultCh <- &ProcessingResult{
			Success:      false,
			VoterID:      voterID,
			ErrorMessage: "vote queue is full",
		}
		close(resultCh)
		return resultCh
	}
}

func (qp *QueueProcessor) voteWorker() {
	defer qp.processingWg.Done()

	for {
		select {
		case <-qp.shutdownCh:
			return
		case req := <-qp.voteCh:
			blockIndex, err := qp.votingService.CastVote(req.VoterID, req.Candidate)
			if err != nil {
				req.ResultCh <- &ProcessingResult{
					Success:      false,
					VoterID:      req.VoterID,
					ErrorMessage: err.Error(),
				}
			} else {
				req.ResultCh <- &ProcessingResult{
					Success:    true,
					VoterID:    req.VoterID,
					BlockIndex: blockIndex,
				}
			}
			close(req.ResultCh)
		}
	}
}

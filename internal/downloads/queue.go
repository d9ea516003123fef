package downloads

import (
	"context"
	"fmt"
	"sync"
)

// MaxConcurrentLimit is the upper bound on simultaneous transfers a queue
// will admit.
const MaxConcurrentLimit = 10

// Stats is a consistent point-in-time snapshot of queue state.
type Stats struct {
	Active        int
	Queued        int
	MaxConcurrent int
}

// Queue admits at most MaxConcurrent transfers at a time.
//
// The channel semaphore is the sole arbiter of the concurrency bound; the
// queued/active counters exist only for status display and are guarded by a
// separate mutex. Counter updates complete in bounded lock-held time and can
// never block an admission or a transfer.
type Queue struct {
	maxConcurrent int
	slots         chan struct{}

	mu     sync.Mutex
	active int
	queued int
}

// NewQueue constructs a queue admitting up to maxConcurrent transfers.
func NewQueue(maxConcurrent int) (*Queue, error) {
	if maxConcurrent < 1 {
		return nil, fmt.Errorf("max concurrent must be at least 1, got %d", maxConcurrent)
	}
	if maxConcurrent > MaxConcurrentLimit {
		return nil, fmt.Errorf("max concurrent must not exceed %d, got %d", MaxConcurrentLimit, maxConcurrent)
	}
	return &Queue{
		maxConcurrent: maxConcurrent,
		slots:         make(chan struct{}, maxConcurrent),
	}, nil
}

// MarkQueued records that a download request has entered the queue.
func (q *Queue) MarkQueued() {
	q.mu.Lock()
	q.queued++
	q.mu.Unlock()
}

// MarkStarted moves one request from queued to active. Callers must have
// called MarkQueued for the request beforehand.
func (q *Queue) MarkStarted() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.queued <= 0 {
		return fmt.Errorf("%w: cannot start download, nothing queued", ErrInvalidState)
	}
	q.queued--
	q.active++
	return nil
}

// MarkCompleted records that an active download finished, successfully or not.
func (q *Queue) MarkCompleted() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.active <= 0 {
		return fmt.Errorf("%w: cannot complete download, nothing active", ErrInvalidState)
	}
	q.active--
	return nil
}

// MarkAbandoned removes one request from the queue without starting it. Used
// when admission is cancelled before a slot was granted.
func (q *Queue) MarkAbandoned() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.queued <= 0 {
		return fmt.Errorf("%w: cannot abandon download, nothing queued", ErrInvalidState)
	}
	q.queued--
	return nil
}

// Acquire blocks until a download slot is free or ctx is done. It reports
// whether a slot was granted; callers that were granted a slot must pair the
// call with exactly one Release.
func (q *Queue) Acquire(ctx context.Context) bool {
	select {
	case q.slots <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

// TryAcquire grants a slot only if one is immediately free.
func (q *Queue) TryAcquire() bool {
	select {
	case q.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees one slot. It never blocks. Calling Release without a matching
// Acquire is a caller bug; the orchestrator's cleanup structure is the only
// intended call site.
func (q *Queue) Release() {
	select {
	case <-q.slots:
	default:
	}
}

// Snapshot returns a consistent view of the queue counters.
func (q *Queue) Snapshot() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Active:        q.active,
		Queued:        q.queued,
		MaxConcurrent: q.maxConcurrent,
	}
}

// MaxConcurrent returns the fixed concurrency cap.
func (q *Queue) MaxConcurrent() int {
	return q.maxConcurrent
}

package downloads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a user-facing notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// Request identifies a single download: one format of one item in one bundle.
type Request struct {
	ID         uuid.UUID
	BundleKey  string
	ItemNumber int
	Format     string
	DestDir    string
}

// Transferer performs the actual file retrieval. It returns true only on
// confirmed success and is safe to retry.
type Transferer interface {
	Transfer(ctx context.Context, req Request) (bool, error)
}

// CompletionStore persists the fact that a request finished successfully.
type CompletionStore interface {
	MarkDownloaded(ctx context.Context, req Request) error
}

// Notifier delivers a fire-and-forget user notification. Implementations must
// never block the caller.
type Notifier interface {
	Notify(message string, severity Severity)
}

// RemovalScheduler arranges for a fully downloaded item row to disappear from
// the display after a delay. Best-effort.
type RemovalScheduler interface {
	ScheduleRemoval(item *ItemState, after time.Duration)
}

// Orchestrator drives download requests through their lifecycle:
//
//	IDLE -> QUEUED -> ACTIVE -> {SUCCEEDED, FAILED, ERRORED} -> DONE
//
// One orchestrator serves all requests of a download session and shares a
// single Queue; each submitted request runs on its own goroutine.
type Orchestrator struct {
	queue          *Queue
	transfer       Transferer
	completions    CompletionStore
	notifier       Notifier
	scheduler      RemovalScheduler
	logger         *slog.Logger
	removalDelay   time.Duration
	acquireTimeout time.Duration
	onChange       func()

	wg sync.WaitGroup
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCompletionStore wires the persistent completion tracker.
func WithCompletionStore(store CompletionStore) OrchestratorOption {
	return func(o *Orchestrator) { o.completions = store }
}

// WithNotifier wires the user notification sink.
func WithNotifier(n Notifier) OrchestratorOption {
	return func(o *Orchestrator) { o.notifier = n }
}

// WithRemovalScheduler wires the deferred row-removal hook.
func WithRemovalScheduler(s RemovalScheduler) OrchestratorOption {
	return func(o *Orchestrator) { o.scheduler = s }
}

// WithRemovalDelay sets how long a completed item row stays visible.
func WithRemovalDelay(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.removalDelay = d }
}

// WithAcquireTimeout bounds how long a queued request waits for a slot.
// Zero waits forever.
func WithAcquireTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.acquireTimeout = d }
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithChangeHook registers a callback invoked after every state transition so
// the owner can trigger a re-render.
func WithChangeHook(hook func()) OrchestratorOption {
	return func(o *Orchestrator) { o.onChange = hook }
}

// NewOrchestrator constructs an orchestrator over the shared queue.
func NewOrchestrator(queue *Queue, transfer Transferer, opts ...OrchestratorOption) (*Orchestrator, error) {
	if queue == nil {
		return nil, errors.New("orchestrator requires a queue")
	}
	if transfer == nil {
		return nil, errors.New("orchestrator requires a transferer")
	}
	o := &Orchestrator{
		queue:    queue,
		transfer: transfer,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Submit admits a download request unless the target format is already
// completed, queued, or downloading. It reports whether the request was
// accepted. The transfer itself runs on a worker goroutine; Submit never
// blocks on slot availability. Callers must serialize Submit calls for a
// given item: the duplicate check and the queued transition are separate
// steps, not a single atomic operation.
func (o *Orchestrator) Submit(ctx context.Context, req Request, item *ItemState) bool {
	if item == nil {
		return false
	}
	if item.IsCompleted(req.Format) || item.InFlight(req.Format) {
		return false
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	o.queue.MarkQueued()
	item.SetQueued(req.Format)
	o.emitChange()
	o.logger.Debug("download queued",
		"request", req.ID,
		"bundle", req.BundleKey,
		"item", req.ItemNumber,
		"format", req.Format)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(ctx, req, item)
	}()
	return true
}

// Wait blocks until every submitted request has reached a terminal state.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// run carries one request from QUEUED to DONE.
func (o *Orchestrator) run(ctx context.Context, req Request, item *ItemState) {
	acquireCtx := ctx
	if o.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, o.acquireTimeout)
		defer cancel()
	}

	if !o.queue.Acquire(acquireCtx) {
		// Never admitted: undo the queued bookkeeping and leave the format
		// retryable.
		item.ClearActive(req.Format)
		if err := o.queue.MarkAbandoned(); err != nil {
			o.logger.Error("queue bookkeeping corrupted", "request", req.ID, "error", err)
		}
		o.notify(fmt.Sprintf("Download of item #%d (%s) did not start", req.ItemNumber, req.Format), SeverityWarning)
		o.emitChange()
		return
	}

	if err := o.queue.MarkStarted(); err != nil {
		o.logger.Error("queue bookkeeping corrupted", "request", req.ID, "error", err)
		item.ClearActive(req.Format)
		o.queue.Release()
		o.emitChange()
		return
	}

	// Release must be the final action of the request so a newly admitted
	// request never observes stale counters: defers run LIFO.
	defer o.queue.Release()
	defer func() {
		if err := o.queue.MarkCompleted(); err != nil {
			o.logger.Error("queue bookkeeping corrupted", "request", req.ID, "error", err)
		}
	}()

	item.SetDownloading(req.Format)
	o.emitChange()
	o.logger.Info("download started",
		"request", req.ID,
		"bundle", req.BundleKey,
		"item", req.ItemNumber,
		"format", req.Format)

	ok, err := o.transfer.Transfer(ctx, req)
	switch {
	case err != nil:
		item.ClearActive(req.Format)
		o.logger.Warn("download errored", "request", req.ID, "error", err)
		o.notify(fmt.Sprintf("Download of item #%d (%s) failed: %s", req.ItemNumber, req.Format, err), SeverityError)
	case !ok:
		item.ClearActive(req.Format)
		o.logger.Warn("download failed", "request", req.ID)
		o.notify(fmt.Sprintf("Failed to download item #%d (%s)", req.ItemNumber, req.Format), SeverityError)
	default:
		item.SetCompleted(req.Format)
		if o.completions != nil {
			if trackErr := o.completions.MarkDownloaded(ctx, req); trackErr != nil {
				o.logger.Warn("record completion", "request", req.ID, "error", trackErr)
			}
		}
		o.logger.Info("download completed", "request", req.ID)
		o.notify(fmt.Sprintf("Downloaded item #%d (%s)", req.ItemNumber, req.Format), SeveritySuccess)
		if item.AllCompleted() && o.scheduler != nil {
			o.scheduler.ScheduleRemoval(item, o.removalDelay)
		}
	}
	o.emitChange()
}

func (o *Orchestrator) notify(message string, severity Severity) {
	if o.notifier != nil {
		o.notifier.Notify(message, severity)
	}
}

func (o *Orchestrator) emitChange() {
	if o.onChange != nil {
		o.onChange()
	}
}

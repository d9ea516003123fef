// Package downloads implements the concurrent download queue and the
// per-item, per-format download state machine.
//
// Queue bounds how many transfers run at once: a channel semaphore enforces
// the admission cap while a pair of mutex-guarded counters tracks queued and
// active requests for display. The two are deliberately decoupled so a
// bookkeeping bug can never stall the transfer path.
//
// ItemState holds the queued/downloading/completed flags for each format of a
// catalog item. Orchestrator drives a single download request through its
// lifecycle, guaranteeing the admission slot is released exactly once
// regardless of outcome.
package downloads

package downloads

import "sync"

// FormatStatus describes how a single format of an item should be displayed.
type FormatStatus int

const (
	StatusNotDownloaded FormatStatus = iota
	StatusCompleted
	StatusDownloading
	StatusQueued
)

// ItemState tracks the download state of every format of one catalog item.
//
// The orchestrator is the only writer once a request is in flight, but the UI
// reads concurrently for rendering, so all access goes through the mutex. A
// render may observe a one-step-stale snapshot; it will never observe a torn
// one.
type ItemState struct {
	Number int
	Name   string
	Size   string

	mu          sync.Mutex
	formats     []string
	selected    int
	completed   map[string]bool
	queued      map[string]bool
	downloading map[string]bool
}

// NewItemState builds the state for one item. completed carries the flags
// loaded from the completion tracker; all transient flags start false.
func NewItemState(number int, name, size string, formats []string, completed map[string]bool) *ItemState {
	st := &ItemState{
		Number:      number,
		Name:        name,
		Size:        size,
		formats:     append([]string(nil), formats...),
		completed:   make(map[string]bool, len(formats)),
		queued:      make(map[string]bool, len(formats)),
		downloading: make(map[string]bool, len(formats)),
	}
	for _, format := range st.formats {
		st.completed[format] = completed[format]
	}
	return st
}

// Formats returns the item's format list in catalog order.
func (s *ItemState) Formats() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.formats...)
}

// Selected returns the format the UI cursor currently targets.
func (s *ItemState) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.formats) == 0 {
		return ""
	}
	return s.formats[s.selected]
}

// CycleFormat advances the selected format, wrapping at the end of the list.
func (s *ItemState) CycleFormat(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := len(s.formats)
	if count == 0 {
		return
	}
	s.selected = ((s.selected+step)%count + count) % count
}

// SetQueued marks a format as waiting for a download slot.
func (s *ItemState) SetQueued(format string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued[format] = true
	s.downloading[format] = false
}

// SetDownloading marks a format as actively transferring.
func (s *ItemState) SetDownloading(format string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued[format] = false
	s.downloading[format] = true
}

// SetCompleted marks a format as downloaded. Completion is sticky.
func (s *ItemState) SetCompleted(format string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued[format] = false
	s.downloading[format] = false
	s.completed[format] = true
}

// ClearActive resets a format to the retryable not-downloaded state after a
// failed or errored transfer.
func (s *ItemState) ClearActive(format string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued[format] = false
	s.downloading[format] = false
}

// Status reports the display status of one format. When flags disagree the
// precedence is fixed: queued beats downloading beats completed, so display
// stays deterministic even if an invariant was violated upstream.
func (s *ItemState) Status(format string) FormatStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.queued[format]:
		return StatusQueued
	case s.downloading[format]:
		return StatusDownloading
	case s.completed[format]:
		return StatusCompleted
	default:
		return StatusNotDownloaded
	}
}

// InFlight reports whether a format is queued or downloading.
func (s *ItemState) InFlight(format string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queued[format] || s.downloading[format]
}

// IsCompleted reports whether a format has been downloaded.
func (s *ItemState) IsCompleted(format string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed[format]
}

// AllCompleted reports whether every format of the item has been downloaded.
// An item with no formats is vacuously complete.
func (s *ItemState) AllCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, format := range s.formats {
		if !s.completed[format] {
			return false
		}
	}
	return true
}

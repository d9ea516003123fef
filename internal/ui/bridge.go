package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"humblesync/internal/downloads"
)

// sender is the subset of tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards download worker events into the running Bubble Tea
// program. It satisfies the orchestrator's notifier and removal-scheduler
// contracts and doubles as its change hook. Events arriving before Attach
// are dropped; the model rebuilds its view from live state on startup.
type Bridge struct {
	mu      sync.Mutex
	program sender
}

// NewBridge returns an unattached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach connects the bridge to a running program.
func (b *Bridge) Attach(program sender) {
	b.mu.Lock()
	b.program = program
	b.mu.Unlock()
}

// Notify publishes a transient notice.
func (b *Bridge) Notify(message string, severity downloads.Severity) {
	b.send(noticeMsg{text: message, severity: severity})
}

// ScheduleRemoval arranges for a fully completed item to leave the detail
// view after the given delay.
func (b *Bridge) ScheduleRemoval(item *downloads.ItemState, after time.Duration) {
	time.AfterFunc(after, func() {
		b.send(removeItemMsg{item: item})
	})
}

// Changed is the orchestrator change hook; it triggers a redraw.
func (b *Bridge) Changed() {
	b.send(downloadChangedMsg{})
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	program := b.program
	b.mu.Unlock()
	if program != nil {
		program.Send(msg)
	}
}

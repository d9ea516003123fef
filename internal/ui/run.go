package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
// The bridge, if provided, is attached to the program so download workers
// can publish events into it.
func Run(ctx context.Context, opts Options, bridge *Bridge) error {
	if opts.Manager == nil {
		return fmt.Errorf("ui requires a library manager")
	}
	if opts.Queue == nil || opts.Orchestrator == nil {
		return fmt.Errorf("ui requires a download queue and orchestrator")
	}
	if opts.Context == nil {
		opts.Context = ctx
	}

	program := tea.NewProgram(New(opts), tea.WithContext(ctx))
	if bridge != nil {
		bridge.Attach(program)
	}
	_, err := program.Run()
	return err
}

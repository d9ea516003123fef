package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	Quit    key.Binding
	Back    key.Binding
	Refresh key.Binding

	Up   key.Binding
	Down key.Binding

	PrevFormat key.Binding
	NextFormat key.Binding
	Download   key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevFormat: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous format"),
		),
		NextFormat: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next format"),
		),
		Download: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "download"),
		),
	}
}

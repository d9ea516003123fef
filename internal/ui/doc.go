// Package ui provides the Bubble Tea TUI for browsing bundles and queueing
// downloads. Background download workers publish progress into the running
// program through the Bridge; the model itself never blocks on transfers.
package ui

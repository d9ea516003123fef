// Package library composes the humble-cli client and the completion tracker
// into one view of the purchased library: which bundles exist, what each one
// contains, and which files are already on disk.
package library

// Command humblesync downloads purchased Humble Bundle items through
// humble-cli, tracks completed files in SQLite, and offers a TUI for
// browsing the library and queueing downloads.
package main

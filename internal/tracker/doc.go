// Package tracker persists download completion records in SQLite so that
// finished files survive restarts and are never fetched twice.
package tracker

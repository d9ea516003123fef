// Package report renders download completion summaries for the terminal.
package report

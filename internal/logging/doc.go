// Package logging constructs the slog loggers used across humblesync.
//
// Two output formats are supported: a compact human-readable console format
// for interactive use and JSON for machine consumption. Loggers write to
// stdout plus an optional log file under the configured log directory.
package logging

// Package humblecli wraps the external humble-cli binary.
//
// The tool speaks plain text: bundle listings as comma-separated lines and
// bundle details as a set of pipe-delimited tables. This package executes the
// tool and parses that output into catalog records. Command execution goes
// through an injectable Executor so tests never shell out.
package humblecli

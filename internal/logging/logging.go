// SPDX-License-Identifier: MPL-2.0

// Package logging builds the charmbracelet/log loggers used across itaminv.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix tags every itaminv log line.
const Prefix = "itaminv"

// New returns a logger writing to w at Info level, or Debug with
// timestamps when verbose is set.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           level,
		ReportTimestamp: verbose,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

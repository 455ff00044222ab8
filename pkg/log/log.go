// Package log creates the structured loggers used throughout the
// emulator.
package log

import (
	"github.com/retroenv/retrogolib/log"
)

// New creates a logger. debug enables debug output, quiet
// limits output to errors.
func New(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// NewQuiet returns a logger that only reports errors. It is the
// default for components that were not given a logger.
func NewQuiet() *log.Logger {
	return New(false, true)
}

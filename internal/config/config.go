// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings.
// Tracing executed instructions implies debug logging.
func CreateLogger(debug, quiet, trace bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug, trace:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

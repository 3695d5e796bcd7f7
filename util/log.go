package util

import (
	"log"
	"sync/atomic"
)

var verbose atomic.Bool

// EnableVerbose enables the printing of verbose logs.
func EnableVerbose() {
	verbose.Store(true)
}

// DisableVerbose turns verbose logs back off.
func DisableVerbose() {
	verbose.Store(false)
}

// IsVerbose reports whether verbose logs are printed.
func IsVerbose() bool {
	return verbose.Load()
}

// Printf prints to the standard logger regardless of whether verbose logging
// is enabled.
func Printf(fmt string, v ...any) {
	log.Printf(fmt, v...)
}

// Verbosef prints to the standard logger only if verbose logging is enabled.
func Verbosef(fmt string, v ...any) {
	if verbose.Load() {
		log.Printf(fmt, v...)
	}
}

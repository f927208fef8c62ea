// Package monitoring holds the diagnostic loggers shared by the clustering
// packages and the command-line tool.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf logs per-cluster detail. It is muted until SetVerbose(true).
var Debugf func(format string, v ...interface{}) = discard

func discard(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = discard
		return
	}
	Logf = f
}

// SetVerbose routes Debugf through Logf when on, and mutes it otherwise.
func SetVerbose(on bool) {
	if !on {
		Debugf = discard
		return
	}
	Debugf = func(format string, v ...interface{}) {
		Logf(format, v...)
	}
}

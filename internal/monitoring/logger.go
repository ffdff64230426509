package monitoring

import "log"

// Logf is the package-level diagnostic logger used by the analysis pipeline.
// It defaults to log.Printf but may be replaced by SetLogger. Tests or
// embedding callers can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Quiet mutes the package logger and returns a function that restores the
// previous logger. Intended for test setup:
//
//	defer monitoring.Quiet()()
func Quiet() (restore func()) {
	prev := Logf
	Logf = func(string, ...interface{}) {}
	return func() { Logf = prev }
}

//go:build !debug

package retry

// debugLog is a no-op unless built with -tags debug.
func debugLog(format string, args ...interface{}) {}

//go:build tinygo

package blink

// The firmware has no log sink.
func logDebug(msg string, args ...any) {}

func logInfo(msg string, args ...any) {}

func logWarn(msg string, args ...any) {}

//go:build !tinygo

package blink

import "log/slog"

func logDebug(msg string, args ...any) { slog.Debug(msg, args...) }

func logInfo(msg string, args ...any) { slog.Info(msg, args...) }

func logWarn(msg string, args ...any) { slog.Warn(msg, args...) }

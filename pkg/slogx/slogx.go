package slogx

import (
	"fmt"
	"log/slog"
)

// Error returns a slog.Attr representing the provided error.
// The attribute key is "error" and the value is the error's message.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Stringer creates a slog.Attr with the provided key and the string
// representation of the given fmt.Stringer value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

const (
	// KeyLoggerName is the attribute key identifying the emitting component.
	KeyLoggerName = "logger"
)

// LoggerName returns an attribute carrying the component logger name.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

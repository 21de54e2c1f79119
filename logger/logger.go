// Package logger holds the process-wide structured logger for the resource
// layer. Lookup misses and I/O failures both surface as nil/false to
// callers, so the log stream is where the two are told apart.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelWarn,
}))

// Init replaces the logger with one writing to w at the named level
// (debug, info, warn, error; anything else means info).
func Init(w io.Writer, levelStr string) {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Silence drops all output. Tests use it to keep fixtures quiet.
func Silence() {
	log = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Debug(msg string, args ...any) { log.Debug(msg, args...) }
func Info(msg string, args ...any)  { log.Info(msg, args...) }
func Warn(msg string, args ...any)  { log.Warn(msg, args...) }
func Error(msg string, args ...any) { log.Error(msg, args...) }

// Package logging installs the process-wide slog handler.
package logging

import (
	"io"
	log "log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

var levels = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(name string) log.Level {
	if l, ok := levels[strings.ToLower(name)]; ok {
		return l
	}
	return log.LevelInfo
}

// Setup makes a tint handler writing to w the default logger and returns it.
func Setup(w io.Writer, level string) *log.Logger {
	l := log.New(tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: time.TimeOnly,
	}))
	log.SetDefault(l)
	return l
}

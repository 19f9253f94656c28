package notify

import (
	"context"
	log "log/slog"
	"os"
)

// Cue plays the "listening" beep stored at path. A missing or broken file
// only costs a warning; the conversation goes on without it.
func Cue(path string) {
	if path == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn("Failed to open cue", "path", path, "err", err)
		return
	}

	if err := PlayMP3(context.Background(), f); err != nil {
		log.Warn("Failed to play cue", "path", path, "err", err)
	}
}

package dialog

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
)

// Capturer records one utterance and returns the path of the audio
// artifact it wrote.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Pipeline is the speech Listener: capture, then transcribe. Every
// transcription failure looks the same to the session.
type Pipeline struct {
	Capturer    Capturer
	Transcriber Transcriber
	Logger      *log.Logger
}

func (p *Pipeline) Listen(ctx context.Context) (string, error) {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}

	path, err := p.Capturer.Capture(ctx)
	if err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}

	logger.Debug("Recognizing", "file", path)

	text, err := p.Transcriber.Transcribe(ctx, path)
	if err != nil {
		logger.Warn("Failed to transcribe", "file", path, "err", err)
		return "", ErrNoSpeech
	}

	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return "", ErrNoSpeech
	}

	return text, nil
}

package audio

import (
	"context"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"time"
)

const DefaultArtifact = "user_input.wav"

// Microphone records a fixed-length utterance and stores it as a WAV
// artifact that the transcriber reads right after.
type Microphone struct {
	Recorder   *Recorder
	Path       string
	Duration   time.Duration
	SampleRate int

	// Cue is played right before recording starts. Optional.
	Cue func()

	// Ducker, when set, quiets other streams during recording.
	Ducker *Ducker
}

func (m *Microphone) Capture(ctx context.Context) (string, error) {
	path := m.Path
	if path == "" {
		path = DefaultArtifact
	}

	if m.Cue != nil {
		m.Cue()
	}

	if m.Ducker != nil {
		if err := m.Ducker.Duck(ctx, 0.3, 150*time.Millisecond); err != nil {
			log.Warn("Failed to duck other streams", "err", err)
		}
		defer func() {
			if err := m.Ducker.Restore(context.WithoutCancel(ctx), 300*time.Millisecond); err != nil {
				log.Warn("Failed to restore other streams", "err", err)
			}
		}()
	}

	log.Info("Start speaking...")

	pcm, err := m.Recorder.Record(ctx, m.Duration, m.SampleRate)
	if err != nil {
		return "", fmt.Errorf("record: %w", err)
	}

	log.Info("Recording finished.", "samples", len(pcm))
	log.Debug("Input level", "rms", RMS(pcm))

	rate := m.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if err := WriteWAV(path, pcm, rate); err != nil {
		return "", err
	}

	return path, nil
}

// Replay hands out pre-recorded files one per turn, then io.EOF until
// Rewind is called.
type Replay struct {
	files []string
	next  int
}

func NewReplay(files ...string) *Replay {
	return &Replay{files: append([]string(nil), files...)}
}

// Rewind starts the files over for the next conversation.
func (r *Replay) Rewind() { r.next = 0 }

func (r *Replay) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.next >= len(r.files) {
		return "", io.EOF
	}

	path := r.files[r.next]
	r.next++

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("replay: %w", err)
	}

	log.Info("Replaying", "file", path, "turn", r.next)
	return path, nil
}

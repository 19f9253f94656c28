package tts

import (
	"context"
	"fmt"
	"io"
	log "log/slog"
	"time"

	openai "github.com/openai/openai-go/v3"

	"weathervox/internal/notify"
)

const DefaultVoice = "shimmer"

// OpenAI renders text with the hosted speech endpoint and plays the mp3
// it returns.
type OpenAI struct {
	client openai.Client
	model  string
	voice  string

	// play blocks until audio has finished.
	play func(ctx context.Context, rc io.ReadCloser) error
}

func NewOpenAI(client openai.Client, model, voice string) *OpenAI {
	if model == "" {
		model = openai.SpeechModelTTS1
	}
	if voice == "" {
		voice = DefaultVoice
	}
	return &OpenAI{client: client, model: model, voice: voice, play: notify.PlayMP3}
}

func (o *OpenAI) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	start := time.Now()
	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          o.model,
		Voice:          openai.AudioSpeechNewParamsVoice(o.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return fmt.Errorf("speech request: %w", err)
	}

	log.Debug("Synthesized speech",
		"chars", len(text),
		"voice", o.voice,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return o.play(ctx, resp.Body)
}

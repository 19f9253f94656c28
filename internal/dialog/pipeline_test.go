package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapturer struct {
	path string
	err  error
}

func (f fakeCapturer) Capture(context.Context) (string, error) { return f.path, f.err }

type fakeTranscriber struct {
	text string
	err  error
	got  string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	f.got = path
	return f.text, f.err
}

func TestPipelineListen(t *testing.T) {
	tr := &fakeTranscriber{text: "  What's The Weather  "}
	p := &Pipeline{Capturer: fakeCapturer{path: "user_input.wav"}, Transcriber: tr}

	text, err := p.Listen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "what's the weather", text)
	assert.Equal(t, "user_input.wav", tr.got)
}

func TestPipelineTranscriptionErrorsBecomeNoSpeech(t *testing.T) {
	for _, tr := range []*fakeTranscriber{
		{err: errors.New("could not understand audio")},
		{err: errors.New("request failed: dial tcp: timeout")},
		{text: "   "},
	} {
		p := &Pipeline{Capturer: fakeCapturer{path: "x.wav"}, Transcriber: tr}
		_, err := p.Listen(context.Background())
		assert.ErrorIs(t, err, ErrNoSpeech)
	}
}

func TestPipelineCaptureErrorPropagates(t *testing.T) {
	boom := errors.New("portaudio: device unavailable")
	p := &Pipeline{Capturer: fakeCapturer{err: boom}, Transcriber: &fakeTranscriber{}}

	_, err := p.Listen(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoSpeech)
}

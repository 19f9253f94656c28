// Package app wires configuration to concrete listeners, synthesizers and
// observers for the binaries.
package app

import (
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"sync/atomic"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"weathervox/internal/audio"
	"weathervox/internal/bus"
	"weathervox/internal/config"
	"weathervox/internal/console"
	"weathervox/internal/dialog"
	"weathervox/internal/notify"
	"weathervox/internal/proxy"
	"weathervox/internal/tts"
	"weathervox/pkg/stt"
)

// AppName is how our own audio streams identify themselves to PulseAudio.
const AppName = "weathervox"

type App struct {
	cfg       *config.Config
	logger    *log.Logger
	listener  dialog.Listener
	speaker   dialog.Synthesizer
	observers []dialog.Observer
	closers   []func()

	// rewind resets per-conversation listener state, if any.
	rewind   func()
	sessions atomic.Int64
}

func New(cfg *config.Config, stdin io.Reader, stdout io.Writer) (*App, error) {
	a := &App{cfg: cfg, logger: log.Default().With("input", cfg.Input)}

	var client openai.Client
	if cfg.STT == config.STTOpenAI || cfg.TTS == config.TTSOpenAI {
		httpClient, err := proxy.NewHTTPClient(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		client = newOpenAIClient(cfg.APIKey, httpClient)
		log.Debug("Loaded openai client", "proxy", cfg.Proxy)
	}

	if err := a.initListener(stdin, stdout, client); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.initSpeaker(stdout, client); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.BusURL != "" {
		b, err := bus.Dial(cfg.BusURL, "vox", "hub")
		if err != nil {
			log.Warn("Running without bus", "url", cfg.BusURL, "err", err)
		} else {
			a.observers = append(a.observers, b)
			a.closers = append(a.closers, func() { _ = b.Close() })
		}
	}

	return a, nil
}

func newOpenAIClient(apiKey string, httpClient *http.Client) openai.Client {
	return openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)
}

func (a *App) initListener(stdin io.Reader, stdout io.Writer, client openai.Client) error {
	cfg := a.cfg

	if cfg.Input == config.InputKeyboard {
		a.listener = console.NewKeyboard(stdin, stdout)
		return nil
	}

	var capturer dialog.Capturer
	switch cfg.Input {
	case config.InputReplay:
		replay := audio.NewReplay(cfg.Replay...)
		a.rewind = replay.Rewind
		capturer = replay
	case config.InputMic:
		rec := audio.NewRecorder()
		if err := rec.Init(); err != nil {
			return fmt.Errorf("init audio: %w", err)
		}
		a.closers = append(a.closers, rec.Close)

		mic := &audio.Microphone{
			Recorder:   rec,
			Path:       cfg.Artifact,
			Duration:   cfg.Duration,
			SampleRate: cfg.SampleRate,
		}
		if cfg.Cue != "" {
			cue := cfg.Cue
			mic.Cue = func() { notify.Cue(cue) }
		}
		if cfg.Duck {
			mic.Ducker = audio.NewDucker([]string{AppName}, 10)
		}
		capturer = mic
		log.Debug("Loaded recorder", "duration", cfg.Duration, "rate", cfg.SampleRate)
	default:
		return fmt.Errorf("unknown input %q", cfg.Input)
	}

	var transcriber dialog.Transcriber
	switch cfg.STT {
	case config.STTWhisper:
		w, err := stt.NewWhisper(cfg.WhisperModel, stt.WhisperOptions{
			Language:      cfg.Language,
			Threads:       cfg.WhisperThreads,
			InitialPrompt: cfg.WhisperPrompt,
			BeamSize:      cfg.WhisperBeam,
		})
		if err != nil {
			return fmt.Errorf("init whisper: %w", err)
		}
		a.closers = append(a.closers, func() { _ = w.Close() })
		transcriber = w
		log.Debug("Loaded whisper", "model", cfg.WhisperModel, "prompt", cfg.WhisperPrompt)
	case config.STTOpenAI:
		transcriber = stt.NewOpenAI(client, "", cfg.Language)
	default:
		return fmt.Errorf("unknown stt %q", cfg.STT)
	}

	a.listener = &dialog.Pipeline{
		Capturer:    capturer,
		Transcriber: transcriber,
		Logger:      a.logger.With("component", "listener"),
	}
	return nil
}

func (a *App) initSpeaker(stdout io.Writer, client openai.Client) error {
	cfg := a.cfg

	switch cfg.TTS {
	case config.TTSEspeak:
		lang := cfg.Voice
		if lang == "" {
			lang = cfg.Language
		}
		a.speaker = tts.NewEspeak(lang)
	case config.TTSOpenAI:
		a.speaker = tts.NewOpenAI(client, "", cfg.Voice)
	case config.TTSConsole:
		a.speaker = &tts.Console{Out: stdout}
	default:
		return fmt.Errorf("unknown tts %q", cfg.TTS)
	}
	return nil
}

// NewSession starts a fresh conversation over the shared collaborators.
// Only one session may use them at a time.
func (a *App) NewSession() *dialog.Session {
	if a.rewind != nil {
		a.rewind()
	}

	n := a.sessions.Add(1)
	opts := make([]dialog.Option, 0, len(a.observers)+1)
	opts = append(opts, dialog.WithLogger(a.logger.With("session", n)))
	for _, o := range a.observers {
		opts = append(opts, dialog.WithObserver(o))
	}
	return dialog.NewSession(a.listener, a.speaker, opts...)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

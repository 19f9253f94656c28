// Package config reads command line flags, with defaults taken from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"
)

const (
	InputMic      = "mic"
	InputKeyboard = "keyboard"
	InputReplay   = "replay"

	STTWhisper = "whisper"
	STTOpenAI  = "openai"

	TTSEspeak  = "espeak"
	TTSOpenAI  = "openai"
	TTSConsole = "console"

	DefaultWhisperPrompt = "weather today tomorrow weekend sunrise sunset"
)

type Config struct {
	EnvFile  string
	LogLevel string

	Input  string
	Replay []string

	STT            string
	WhisperModel   string
	WhisperPrompt  string
	WhisperThreads int
	WhisperBeam    int
	Language       string

	TTS   string
	Voice string

	APIKey string
	Proxy  string

	Artifact   string
	Duration   time.Duration
	SampleRate int
	Cue        string
	Duck       bool

	BusURL string
	Socket string
}

// Load parses args (without the program name). The env file named by
// --env is loaded first so its values become flag defaults.
func Load(name string, args []string) (*Config, error) {
	envFile := envFileFromArgs(args)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	c := &Config{}
	fs := cli.NewFlagSet(name, cli.ContinueOnError)

	fs.StringVarP(&c.EnvFile, "env", "e", envFile, "Env file path")
	fs.StringVarP(&c.LogLevel, "log", "l", getEnvString("VOX_LOG", "info"), "Log level")
	fs.StringVarP(&c.Input, "input", "i", getEnvString("VOX_INPUT", InputMic), "Utterance source: mic, keyboard or replay")
	fs.StringSliceVar(&c.Replay, "replay", nil, "Audio files to replay as utterances, in order")
	fs.StringVar(&c.STT, "stt", getEnvString("VOX_STT", STTWhisper), "Transcriber: whisper or openai")
	fs.StringVar(&c.WhisperModel, "whisper-model", getEnvString("WHISPER_MODEL", "third_party/whisper.cpp/models/ggml-base.en.bin"), "Whisper model path")
	fs.StringVar(&c.WhisperPrompt, "whisper-prompt", getEnvString("WHISPER_PROMPT", DefaultWhisperPrompt), "Initial prompt that biases whisper toward these words")
	fs.IntVar(&c.WhisperThreads, "whisper-threads", getEnvInt("WHISPER_THREADS", 0), "Whisper threads, 0 uses every CPU")
	fs.IntVar(&c.WhisperBeam, "whisper-beam", getEnvInt("WHISPER_BEAM", 0), "Whisper beam size, 0 decodes greedily")
	fs.StringVar(&c.Language, "language", getEnvString("VOX_LANGUAGE", "en"), "Spoken language")
	fs.StringVar(&c.TTS, "tts", getEnvString("VOX_TTS", TTSEspeak), "Synthesizer: espeak, openai or console")
	fs.StringVar(&c.Voice, "voice", getEnvString("VOX_VOICE", ""), "Synthesizer voice")
	fs.StringVarP(&c.Proxy, "proxy", "p", getEnvString("VOX_PROXY", ""), "Socks proxy address for hosted services")
	fs.StringVar(&c.Artifact, "artifact", getEnvString("VOX_ARTIFACT", "user_input.wav"), "Where each recording is written")
	fs.DurationVar(&c.Duration, "duration", getEnvDuration("VOX_DURATION", 4*time.Second), "Recording length per turn")
	fs.IntVar(&c.SampleRate, "sample-rate", getEnvInt("VOX_SAMPLE_RATE", 44100), "Recording sample rate")
	fs.StringVar(&c.Cue, "cue", getEnvString("VOX_CUE", ""), "mp3 played before each recording")
	fs.BoolVar(&c.Duck, "duck", getEnvBool("VOX_DUCK", false), "Lower other audio streams while recording")
	fs.StringVar(&c.BusURL, "bus", getEnvString("BUS_URL", ""), "Websocket hub that receives turn events")
	fs.StringVar(&c.Socket, "socket", getEnvString("VOX_SOCKET", "/tmp/vox.sock"), "Daemon control socket")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c.APIKey = os.Getenv("OPENAI_API_KEY")
	c.Input = strings.ToLower(c.Input)
	c.STT = strings.ToLower(c.STT)
	c.TTS = strings.ToLower(c.TTS)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if !slices.Contains([]string{InputMic, InputKeyboard, InputReplay}, c.Input) {
		return fmt.Errorf("unknown input %q", c.Input)
	}
	if c.Input == InputReplay && len(c.Replay) == 0 {
		return fmt.Errorf("replay input needs --replay files")
	}

	if c.Input != InputKeyboard {
		switch c.STT {
		case STTWhisper:
			if c.WhisperModel == "" {
				return fmt.Errorf("whisper model path must be provided")
			}
		case STTOpenAI:
			if c.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY not set")
			}
		default:
			return fmt.Errorf("unknown stt %q", c.STT)
		}
	}

	switch c.TTS {
	case TTSEspeak, TTSConsole:
	case TTSOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
	default:
		return fmt.Errorf("unknown tts %q", c.TTS)
	}

	if c.Duration <= 0 {
		return fmt.Errorf("recording duration must be positive: %s", c.Duration)
	}
	if c.WhisperThreads < 0 || c.WhisperBeam < 0 {
		return fmt.Errorf("whisper threads and beam size must not be negative")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", c.SampleRate)
	}
	if c.Input == InputMic && c.Artifact == "" {
		return fmt.Errorf("artifact path must be provided")
	}
	return nil
}

func envFileFromArgs(args []string) string {
	for i, a := range args {
		switch {
		case a == "--":
			return ".env"
		case a == "-e" || a == "--env":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--env="):
			return strings.TrimPrefix(a, "--env=")
		case strings.HasPrefix(a, "-e") && len(a) > 2:
			return strings.TrimPrefix(strings.TrimPrefix(a, "-e"), "=")
		}
	}
	return ".env"
}

func getEnvString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	c, err := Load("vox", []string{"-e", missingEnv(t)})
	require.NoError(t, err)

	assert.Equal(t, InputMic, c.Input)
	assert.Equal(t, STTWhisper, c.STT)
	assert.Equal(t, TTSEspeak, c.TTS)
	assert.Equal(t, 4*time.Second, c.Duration)
	assert.Equal(t, 44100, c.SampleRate)
	assert.Equal(t, "user_input.wav", c.Artifact)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.Duck)
	assert.Equal(t, DefaultWhisperPrompt, c.WhisperPrompt)
	assert.Zero(t, c.WhisperThreads)
	assert.Zero(t, c.WhisperBeam)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("VOX_TTS", "Console")
	t.Setenv("VOX_DURATION", "2500ms")
	t.Setenv("VOX_DUCK", "true")

	c, err := Load("vox", []string{"--env", missingEnv(t)})
	require.NoError(t, err)

	assert.Equal(t, TTSConsole, c.TTS)
	assert.Equal(t, 2500*time.Millisecond, c.Duration)
	assert.True(t, c.Duck)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("VOX_TTS", "espeak")

	c, err := Load("vox", []string{
		"--env=" + missingEnv(t),
		"--tts", "console",
		"-i", "replay",
		"--replay", "a.wav,b.ogg",
		"--sample-rate", "16000",
	})
	require.NoError(t, err)

	assert.Equal(t, TTSConsole, c.TTS)
	assert.Equal(t, InputReplay, c.Input)
	assert.Equal(t, []string{"a.wav", "b.ogg"}, c.Replay)
	assert.Equal(t, 16000, c.SampleRate)
}

func TestLoadWhisperTuning(t *testing.T) {
	t.Setenv("WHISPER_THREADS", "2")

	c, err := Load("vox", []string{
		"-e", missingEnv(t),
		"--whisper-prompt", "sunrise sunset",
		"--whisper-beam", "5",
	})
	require.NoError(t, err)

	assert.Equal(t, "sunrise sunset", c.WhisperPrompt)
	assert.Equal(t, 2, c.WhisperThreads)
	assert.Equal(t, 5, c.WhisperBeam)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vox.env")
	require.NoError(t, os.WriteFile(path, []byte("OPENAI_API_KEY=sk-from-file\nVOX_STT=openai\n"), 0o644))
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")
	t.Setenv("VOX_STT", "")
	os.Unsetenv("VOX_STT")

	c, err := Load("vox", []string{"-e", path})
	require.NoError(t, err)

	assert.Equal(t, "sk-from-file", c.APIKey)
	assert.Equal(t, STTOpenAI, c.STT)
	assert.Equal(t, path, c.EnvFile)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Input:        InputMic,
			STT:          STTWhisper,
			WhisperModel: "ggml-base.en.bin",
			TTS:          TTSEspeak,
			Duration:     4 * time.Second,
			SampleRate:   44100,
			Artifact:     "user_input.wav",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown input", func(c *Config) { c.Input = "telepathy" }, true},
		{"replay without files", func(c *Config) { c.Input = InputReplay }, true},
		{"replay with files", func(c *Config) { c.Input = InputReplay; c.Replay = []string{"a.wav"} }, false},
		{"unknown stt", func(c *Config) { c.STT = "google" }, true},
		{"keyboard ignores stt", func(c *Config) { c.Input = InputKeyboard; c.STT = "" }, false},
		{"openai stt without key", func(c *Config) { c.STT = STTOpenAI }, true},
		{"openai stt with key", func(c *Config) { c.STT = STTOpenAI; c.APIKey = "sk" }, false},
		{"missing whisper model", func(c *Config) { c.WhisperModel = "" }, true},
		{"unknown tts", func(c *Config) { c.TTS = "pyttsx3" }, true},
		{"openai tts without key", func(c *Config) { c.TTS = TTSOpenAI }, true},
		{"zero duration", func(c *Config) { c.Duration = 0 }, true},
		{"negative sample rate", func(c *Config) { c.SampleRate = -1 }, true},
		{"mic without artifact", func(c *Config) { c.Artifact = "" }, true},
		{"negative whisper threads", func(c *Config) { c.WhisperThreads = -1 }, true},
		{"negative whisper beam", func(c *Config) { c.WhisperBeam = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvFileFromArgs(t *testing.T) {
	assert.Equal(t, ".env", envFileFromArgs(nil))
	assert.Equal(t, "a.env", envFileFromArgs([]string{"-e", "a.env"}))
	assert.Equal(t, "b.env", envFileFromArgs([]string{"--env=b.env"}))
	assert.Equal(t, "c.env", envFileFromArgs([]string{"-ec.env"}))
	assert.Equal(t, ".env", envFileFromArgs([]string{"--", "-e", "x"}))
}

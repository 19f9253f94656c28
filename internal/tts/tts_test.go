package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) openai.Client {
	return openai.NewClient(
		option.WithBaseURL(srv.URL+"/"),
		option.WithAPIKey("sk-test"),
		option.WithMaxRetries(0),
	)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Out: &buf}

	require.NoError(t, c.Speak(context.Background(), "Anything else?"))
	assert.Equal(t, "Robot: Anything else?\n", buf.String())
}

func TestOpenAISpeak(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-fake-mp3"))
	}))
	defer srv.Close()

	o := NewOpenAI(newTestClient(srv), "", "")

	var played []byte
	o.play = func(_ context.Context, rc io.ReadCloser) error {
		defer rc.Close()
		var err error
		played, err = io.ReadAll(rc)
		return err
	}

	require.NoError(t, o.Speak(context.Background(), "Goodbye, have a nice day!"))

	assert.Equal(t, "Goodbye, have a nice day!", got["input"])
	assert.Equal(t, "tts-1", got["model"])
	assert.Equal(t, DefaultVoice, got["voice"])
	assert.Equal(t, "mp3", got["response_format"])
	assert.Equal(t, "ID3-fake-mp3", string(played))
}

func TestOpenAISpeakCustomVoice(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("ID3"))
	}))
	defer srv.Close()

	o := NewOpenAI(newTestClient(srv), "tts-1-hd", "nova")
	o.play = func(_ context.Context, rc io.ReadCloser) error { return rc.Close() }

	require.NoError(t, o.Speak(context.Background(), "hello"))
	assert.Equal(t, "tts-1-hd", got["model"])
	assert.Equal(t, "nova", got["voice"])
}

func TestOpenAISpeakHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	o := NewOpenAI(newTestClient(srv), "", "")
	o.play = func(context.Context, io.ReadCloser) error {
		t.Fatal("nothing should be played")
		return nil
	}

	err := o.Speak(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestOpenAISpeakEmptyText(t *testing.T) {
	o := NewOpenAI(openai.NewClient(option.WithBaseURL("http://127.0.0.1:1/")), "", "")
	assert.NoError(t, o.Speak(context.Background(), ""))
}

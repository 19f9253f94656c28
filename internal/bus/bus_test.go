package bus

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weathervox/internal/dialog"
	"weathervox/internal/intent"
)

func TestBusObservePublishesTurn(t *testing.T) {
	received := make(chan Message, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var m Message
		if err := json.Unmarshal(data, &m); err == nil {
			received <- m
		}
	}))
	defer srv.Close()

	b, err := Dial("ws"+strings.TrimPrefix(srv.URL, "http"), "vox", "hub")
	require.NoError(t, err)
	defer b.Close()

	b.Observe(dialog.TurnEvent{
		Utterance: "weather",
		Reply:     intent.Match("weather"),
		Outcome:   dialog.Outcome{State: dialog.AwaitingTimeframeClarification},
	})

	select {
	case m := <-received:
		assert.Equal(t, Message{
			From:    "vox",
			To:      "hub",
			Kind:    "turn",
			Content: "weather",
			Reply:   intent.TextWeatherClarify,
			Intent:  "weather_clarify",
			State:   "awaiting_timeframe_clarification",
		}, m)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestDialFailure(t *testing.T) {
	_, err := Dial("ws://127.0.0.1:1/ws", "vox", "hub")
	assert.Error(t, err)
}

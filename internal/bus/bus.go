// Package bus reports finished dialog turns to a hub over a websocket.
package bus

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"weathervox/internal/dialog"
)

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Reply   string `json:"reply,omitempty"`
	Intent  string `json:"intent,omitempty"`
	State   string `json:"state,omitempty"`
}

type Bus struct {
	mu   sync.Mutex
	conn *websocket.Conn
	from string
	to   string
}

var _ dialog.Observer = (*Bus)(nil)

func Dial(wsURL, from, to string) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("parse bus url: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial bus: %w", err)
	}

	log.Info("Connected to bus", "url", wsURL)
	return &Bus{conn: conn, from: from, to: to}, nil
}

func (b *Bus) Write(m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn.WriteMessage(websocket.TextMessage, data)
}

// Observe publishes a turn. The dialog never waits on a broken hub: errors
// are logged and dropped.
func (b *Bus) Observe(ev dialog.TurnEvent) {
	m := Message{
		From:    b.from,
		To:      b.to,
		Kind:    "turn",
		Content: ev.Utterance,
		Reply:   ev.Reply.Text,
		Intent:  ev.Reply.Kind.String(),
		State:   ev.Outcome.State.String(),
	}
	if err := b.Write(m); err != nil {
		log.Warn("Failed to publish turn", "err", err)
	}
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_ = b.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return b.conn.Close()
}

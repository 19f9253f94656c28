// Package dialog drives the turn-by-turn conversation: listen, match,
// speak, then decide whether to keep going.
package dialog

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"

	"weathervox/internal/intent"
)

const AnythingElse = "Anything else?"

// ErrNoSpeech is returned by a Listener when a turn produced no text.
// The session retries silently.
var ErrNoSpeech = errors.New("no speech recognized")

type Listener interface {
	Listen(ctx context.Context) (string, error)
}

type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Observer receives every completed turn. Implementations must not block
// for long; the conversation waits on them.
type Observer interface {
	Observe(ev TurnEvent)
}

type TurnEvent struct {
	Utterance string
	Reply     intent.Response
	Outcome   Outcome
}

type Session struct {
	listener  Listener
	speaker   Synthesizer
	observers []Observer
	logger    *log.Logger

	first bool
	state State
}

type Option func(*Session)

func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func NewSession(l Listener, sp Synthesizer, opts ...Option) *Session {
	s := &Session{
		listener: l,
		speaker:  sp,
		logger:   log.Default(),
		first:    true,
		state:    AwaitingInput,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "dialog")
	return s
}

func (s *Session) State() State { return s.state }

// Step runs a single turn and returns the state the conversation is in
// afterwards. Clarification and misunderstanding are reported for the turn
// that caused them; the next Step starts from AwaitingInput regardless.
func (s *Session) Step(ctx context.Context) (State, error) {
	if s.state == Terminated {
		return Terminated, nil
	}
	s.state = AwaitingInput

	text, err := s.listener.Listen(ctx)
	if errors.Is(err, ErrNoSpeech) {
		s.logger.Debug("Nothing heard, listening again")
		return s.state, nil
	}
	if err != nil {
		return s.state, fmt.Errorf("listen: %w", err)
	}

	utterance := strings.ToLower(strings.TrimSpace(text))
	if utterance == "" {
		return s.state, nil
	}
	s.logger.Info("User says", "text", utterance)

	reply := intent.Match(utterance)
	s.logger.Info("Robot responds", "intent", reply.Kind, "text", reply.Text)
	s.say(ctx, reply.Text)

	out := Transition(Turn{First: s.first, Utterance: utterance, Reply: reply})
	s.first = false

	if out.AskMore {
		s.logger.Info("Robot asks", "text", AnythingElse)
		s.say(ctx, AnythingElse)
	}
	if out.SignOff {
		s.logger.Info("Robot signs off", "text", intent.TextFarewell)
		s.say(ctx, intent.TextFarewell)
	}
	if out.State == Terminated {
		s.logger.Info("Ending conversation")
	}

	s.state = out.State
	for _, o := range s.observers {
		o.Observe(TurnEvent{Utterance: utterance, Reply: reply, Outcome: out})
	}

	return s.state, nil
}

// Run loops until the conversation terminates, the listener fails, or ctx
// is cancelled between turns.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("Conversation started")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		st, err := s.Step(ctx)
		if err != nil {
			return err
		}
		if st == Terminated {
			return nil
		}
	}
}

func (s *Session) say(ctx context.Context, text string) {
	if err := s.speaker.Speak(ctx, text); err != nil {
		s.logger.Warn("Failed to voice out", "text", text, "err", err)
	}
}

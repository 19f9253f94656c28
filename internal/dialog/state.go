package dialog

import "weathervox/internal/intent"

type State int

const (
	AwaitingInput State = iota
	AwaitingTimeframeClarification
	Misunderstood
	ReadyForMore
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case AwaitingTimeframeClarification:
		return "awaiting_timeframe_clarification"
	case Misunderstood:
		return "misunderstood"
	case ReadyForMore:
		return "ready_for_more"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Turn is everything the controller knows once a reply has been spoken.
type Turn struct {
	First     bool
	Utterance string
	Reply     intent.Response
}

// Outcome says where the conversation goes after a turn. AskMore means the
// anything-else prompt is spoken; SignOff means a farewell follows it.
type Outcome struct {
	State   State
	AskMore bool
	SignOff bool
}

// Transition decides the post-reply step. Termination is driven by the raw
// utterance, the clarification states by the reply's tag.
func Transition(t Turn) Outcome {
	u := t.Utterance

	if intent.ContainsAny(u, "goodbye", "thank you") {
		return Outcome{State: Terminated}
	}

	if t.First {
		return Outcome{State: AwaitingInput}
	}

	switch t.Reply.Kind.Signal() {
	case intent.TimeframeClarification:
		return Outcome{State: AwaitingTimeframeClarification}
	case intent.NotUnderstood:
		return Outcome{State: Misunderstood}
	}

	if intent.ContainsAny(u, "no", "nothing") {
		return Outcome{State: Terminated, AskMore: true, SignOff: true}
	}

	return Outcome{State: ReadyForMore, AskMore: true}
}

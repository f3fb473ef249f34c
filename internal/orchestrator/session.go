package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"normbot/internal/agent"
	"normbot/internal/llm"
	"normbot/internal/phase"

	"github.com/google/uuid"
)

// FinalAnswerSentinel marks the end of a session when it opens an assistant
// reply.
const FinalAnswerSentinel = "FINAL ANSWER"

// Role identifies the author of a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one transcript entry. User turns carry a string, assistant turns
// carry the agent reply.
type Turn struct {
	Role    Role
	Content any

	// Phase that produced an assistant turn, or that consumed a user turn.
	Phase phase.Phase
}

// UserTurn creates a user turn.
func UserTurn(text string, p phase.Phase) Turn {
	return Turn{Role: RoleUser, Content: text, Phase: p}
}

// AssistantTurn creates an assistant turn.
func AssistantTurn(reply *agent.Reply, p phase.Phase) Turn {
	return Turn{Role: RoleAssistant, Content: reply, Phase: p}
}

// Text returns the textual content of the turn.
func (t Turn) Text() string {
	switch c := t.Content.(type) {
	case nil:
		return ""
	case string:
		return c
	case *agent.Reply:
		if c == nil {
			return ""
		}
		return c.Text
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprintf("%v", c)
	}
}

// MarshalJSON encodes the turn as {"role": ..., "content": ...}.
func (t Turn) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Role    Role        `json:"role"`
		Content any         `json:"content"`
		Phase   phase.Phase `json:"phase,omitempty"`
	}{Role: t.Role, Content: t.Content, Phase: t.Phase})
}

// State is the immutable session value threaded through Step.
type State struct {
	// ID identifies the session; a reset starts a new one.
	ID string

	// Pending is the user text to consume on the next step, nil once consumed.
	Pending *string

	Transcript []Turn
	Phase      phase.Phase
}

// Fresh returns the state of a new session.
func Fresh() State {
	return State{
		ID:    uuid.NewString(),
		Phase: phase.Init,
	}
}

// WithPending returns a copy of s with text queued as the next user input.
func (s State) WithPending(text string) State {
	next := s.clone()
	next.Pending = &text
	return next
}

// LastReply returns the most recent assistant turn, if any.
func (s State) LastReply() (Turn, bool) {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Role == RoleAssistant {
			return s.Transcript[i], true
		}
	}
	return Turn{}, false
}

// ShouldReset reports whether the last turn is an assistant reply opening
// with the FINAL ANSWER sentinel.
func ShouldReset(s State) bool {
	if len(s.Transcript) == 0 {
		return false
	}
	last := s.Transcript[len(s.Transcript)-1]
	if last.Role != RoleAssistant {
		return false
	}
	text := strings.TrimLeftFunc(last.Text(), unicode.IsSpace)
	return strings.HasPrefix(text, FinalAnswerSentinel)
}

// Messages converts the transcript into model messages.
func (s State) Messages() []llm.Message {
	messages := make([]llm.Message, 0, len(s.Transcript))
	for _, t := range s.Transcript {
		switch t.Role {
		case RoleUser:
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: t.Text()})
		case RoleAssistant:
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: t.Text()})
		case RoleSystem:
			messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: t.Text()})
		}
	}
	return messages
}

func (s State) clone() State {
	next := s
	if s.Pending != nil {
		text := *s.Pending
		next.Pending = &text
	}
	next.Transcript = make([]Turn, len(s.Transcript))
	copy(next.Transcript, s.Transcript)
	return next
}

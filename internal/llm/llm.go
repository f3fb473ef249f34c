// Package llm defines the provider-neutral interface normbot uses to talk to
// a language model, along with the Gemini implementation.
package llm

import (
	"context"
	"errors"
	"strings"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the conversation sent to the model.
type Message struct {
	Role    Role
	Content string

	// ToolCalls is set on assistant messages that requested tool invocations.
	ToolCalls []ToolCall

	// ToolCallID and Name are set on RoleTool messages and point back at the
	// call they answer.
	ToolCallID string
	Name       string
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolSpec describes a callable tool to the model. Schema is a JSON Schema
// object.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Request is a single generation request.
type Request struct {
	System   string
	Messages []Message
	Tools    []ToolSpec
}

// Response is the model output for a Request. A response carries either tool
// calls, final text, or both.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Model generates completions.
type Model interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// ErrEmptyResponse is returned when the backend produced no candidates.
var ErrEmptyResponse = errors.New("llm returned an empty response")

// Complete sends a single user prompt and returns the trimmed text reply.
func Complete(ctx context.Context, m Model, prompt string) (string, error) {
	resp, err := m.Generate(ctx, &Request{
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

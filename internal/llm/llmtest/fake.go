// Package llmtest provides scripted llm.Model implementations for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"normbot/internal/llm"
)

// Func adapts a function to llm.Model.
type Func func(ctx context.Context, req *llm.Request) (*llm.Response, error)

// Generate implements llm.Model.
func (f Func) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

// Text returns a model that always answers with text.
func Text(text string) *Script {
	return NewScript().Repeat(&llm.Response{Text: text})
}

// Script replays queued responses in order and records every request.
type Script struct {
	mu        sync.Mutex
	responses []*llm.Response
	errs      []error
	repeat    *llm.Response
	requests  []*llm.Request
}

// NewScript creates an empty script.
func NewScript() *Script {
	return &Script{}
}

// Then queues a response.
func (s *Script) Then(resp *llm.Response) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, resp)
	s.errs = append(s.errs, nil)
	return s
}

// ThenText queues a text-only response.
func (s *Script) ThenText(text string) *Script {
	return s.Then(&llm.Response{Text: text})
}

// ThenCall queues a response requesting one tool call.
func (s *Script) ThenCall(name string, args map[string]any) *Script {
	return s.Then(&llm.Response{ToolCalls: []llm.ToolCall{{ID: fmt.Sprintf("call-%s", name), Name: name, Arguments: args}}})
}

// ThenError queues a failure.
func (s *Script) ThenError(err error) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, nil)
	s.errs = append(s.errs, err)
	return s
}

// Repeat sets the response returned once the queue is drained.
func (s *Script) Repeat(resp *llm.Response) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeat = resp
	return s
}

// Generate implements llm.Model.
func (s *Script) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(s.responses) > 0 {
		resp, err := s.responses[0], s.errs[0]
		s.responses, s.errs = s.responses[1:], s.errs[1:]
		return resp, err
	}
	if s.repeat != nil {
		r := *s.repeat
		return &r, nil
	}
	return nil, fmt.Errorf("llmtest: script exhausted after %d requests", len(s.requests))
}

// Requests returns the requests seen so far.
func (s *Script) Requests() []*llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*llm.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

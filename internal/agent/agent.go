package agent

import (
	"context"
	"errors"
	"fmt"

	"normbot/internal/llm"
	"normbot/pkg/logging"
)

const defaultMaxIterations = 8

// ErrMaxIterations is returned when the model keeps requesting tools past the
// iteration limit.
var ErrMaxIterations = errors.New("agent stopped due to iteration limit")

// Toolbox is the set of tools an agent may call.
type Toolbox interface {
	Specs() []llm.ToolSpec
	Call(ctx context.Context, name string, args map[string]any) (string, error)
}

// Agent is a tool-calling reasoning agent.
type Agent struct {
	model         llm.Model
	tools         Toolbox
	specs         []llm.ToolSpec
	system        string
	maxIterations int
}

// Option configures an Agent.
type Option func(*Agent)

// WithSystemPrompt sets the system instruction sent with every request.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) { a.system = prompt }
}

// WithMaxIterations bounds the number of model calls per Run.
func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

// New creates an agent. Tool specs are read once here; a nameless or
// duplicated tool is rejected.
func New(model llm.Model, tools Toolbox, opts ...Option) (*Agent, error) {
	if model == nil {
		return nil, fmt.Errorf("agent requires a model")
	}

	a := &Agent{
		model:         model,
		tools:         tools,
		maxIterations: defaultMaxIterations,
	}
	for _, opt := range opts {
		opt(a)
	}

	if tools != nil {
		a.specs = tools.Specs()
		seen := make(map[string]bool, len(a.specs))
		for _, spec := range a.specs {
			if spec.Name == "" {
				return nil, fmt.Errorf("tool without name in toolbox")
			}
			if seen[spec.Name] {
				return nil, fmt.Errorf("duplicate tool %q in toolbox", spec.Name)
			}
			seen[spec.Name] = true
		}
	}
	return a, nil
}

// SystemPrompt returns the bound system instruction.
func (a *Agent) SystemPrompt() string { return a.system }

// Run answers input given the prior conversation history. History is not
// modified.
func (a *Agent) Run(ctx context.Context, history []llm.Message, input string) (*Reply, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input})

	reply := &Reply{}
	for i := 0; i < a.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logging.Debug("Agent", "calling LLM (messages=%d, tools=%d, iteration=%d)", len(messages), len(a.specs), i+1)
		resp, err := a.model.Generate(ctx, &llm.Request{
			System:   a.system,
			Messages: messages,
			Tools:    a.specs,
		})
		if err != nil {
			return nil, fmt.Errorf("LLM call failed: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			reply.Text = resp.Text
			logging.Debug("Agent", "agent loop completed after %d iterations", i+1)
			return reply, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			invocation := a.invoke(ctx, call)
			reply.ToolCalls = append(reply.ToolCalls, invocation)
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    invocation.Result(),
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}
	}

	return nil, fmt.Errorf("%w (%d)", ErrMaxIterations, a.maxIterations)
}

func (a *Agent) invoke(ctx context.Context, call llm.ToolCall) ToolInvocation {
	invocation := ToolInvocation{Name: call.Name, Arguments: call.Arguments}
	if a.tools == nil {
		invocation.Error = fmt.Sprintf("no tools available, cannot call %s", call.Name)
		return invocation
	}

	logging.Info("Agent", "executing tool %s", call.Name)
	output, err := a.tools.Call(ctx, call.Name, call.Arguments)
	if err != nil {
		logging.Warn("Agent", "tool %s failed: %v", call.Name, err)
		invocation.Error = err.Error()
		return invocation
	}
	invocation.Output = output
	return invocation
}

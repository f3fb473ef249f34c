package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"normbot/internal/phase"
	"normbot/pkg/logging"
)

// Policy selects how the machine picks the phase to execute.
type Policy string

const (
	PolicyLinear Policy = "linear"
	PolicyRouter Policy = "router"
)

// ParsePolicy validates a policy name.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case PolicyLinear, "":
		return PolicyLinear, nil
	case PolicyRouter:
		return PolicyRouter, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want %s or %s)", raw, PolicyLinear, PolicyRouter)
	}
}

// Stepper advances a session by one user turn.
type Stepper interface {
	Step(ctx context.Context, state State, userText string) (State, error)
}

// Machine is the phase-sequencing state machine.
type Machine struct {
	policy Policy
	agents *AgentCache
	router *Router
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithPolicy sets the routing policy.
func WithPolicy(p Policy) MachineOption {
	return func(m *Machine) { m.policy = p }
}

// WithRouter attaches a router. Under PolicyLinear it is advisory only.
func WithRouter(r *Router) MachineOption {
	return func(m *Machine) { m.router = r }
}

// NewMachine creates a machine serving phases from agents.
func NewMachine(agents *AgentCache, opts ...MachineOption) *Machine {
	m := &Machine{policy: PolicyLinear, agents: agents}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy returns the configured policy.
func (m *Machine) Policy() Policy { return m.policy }

// Step runs one turn. The input is userText, or the state's pending text when
// userText is empty. On error the input state is returned unchanged.
func (m *Machine) Step(ctx context.Context, state State, userText string) (State, error) {
	input := userText
	if input == "" && state.Pending != nil {
		input = *state.Pending
	}

	current := state.Phase
	if !current.Valid() {
		logging.Warn("Session", "state carried unknown phase %q, using %s", current, phase.Init)
		current = phase.Init
	}

	executed := current
	switch m.policy {
	case PolicyRouter:
		executed = m.router.Decide(ctx, state.Transcript, current)
	default:
		if m.router != nil {
			advice := m.router.Decide(ctx, state.Transcript, current)
			logging.Debug("Router", "router suggests %s, executing %s", advice, current)
		}
	}

	runner, err := m.agents.For(ctx, executed)
	if err != nil {
		return state, err
	}

	logging.Info("Session", "running phase %s", executed)
	reply, err := runner.Run(ctx, nil, input)
	if err != nil {
		return state, fmt.Errorf("phase %s: %w", executed, err)
	}

	next := state.clone()
	next.Pending = nil
	next.Transcript = append(next.Transcript, UserTurn(input, executed), AssistantTurn(reply, executed))
	if m.policy == PolicyRouter {
		next.Phase = executed
	} else {
		next.Phase = phase.Next(executed)
	}
	if next.ID == "" {
		next.ID = Fresh().ID
	}
	return next, nil
}

// Chat is a single-agent session that sends the whole transcript with every
// turn. The phase never changes.
type Chat struct {
	runner Runner
}

// NewChat creates a chat session stepper around runner.
func NewChat(runner Runner) *Chat {
	return &Chat{runner: runner}
}

// Step runs one chat turn. On error the input state is returned unchanged.
func (c *Chat) Step(ctx context.Context, state State, userText string) (State, error) {
	input := userText
	if input == "" && state.Pending != nil {
		input = *state.Pending
	}

	reply, err := c.runner.Run(ctx, state.Messages(), input)
	if err != nil {
		return state, err
	}

	next := state.clone()
	next.Pending = nil
	next.Transcript = append(next.Transcript, UserTurn(input, state.Phase), AssistantTurn(reply, state.Phase))
	if next.ID == "" {
		next.ID = Fresh().ID
	}
	return next, nil
}

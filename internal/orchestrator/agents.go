package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"normbot/internal/agent"
	"normbot/internal/llm"
	"normbot/internal/phase"
	"normbot/pkg/logging"

	"golang.org/x/sync/singleflight"
)

// Runner answers one user input given the prior conversation.
type Runner interface {
	Run(ctx context.Context, history []llm.Message, input string) (*agent.Reply, error)
}

// Builder constructs the runner serving a phase.
type Builder func(ctx context.Context, p phase.Phase) (Runner, error)

// PhaseAgentBuilder returns a Builder creating a tool-using agent bound to the
// phase instruction and every tool in tools.
func PhaseAgentBuilder(model llm.Model, tools agent.Toolbox, maxIterations int) Builder {
	return func(_ context.Context, p phase.Phase) (Runner, error) {
		a, err := agent.New(model, tools,
			agent.WithSystemPrompt(phase.Instruction(p)),
			agent.WithMaxIterations(maxIterations),
		)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

// AgentCache memoizes one runner per phase for the life of the process.
type AgentCache struct {
	build Builder

	mu     sync.RWMutex
	agents map[phase.Phase]Runner
	group  singleflight.Group
}

// NewAgentCache creates an empty cache using build for misses.
func NewAgentCache(build Builder) *AgentCache {
	return &AgentCache{
		build:  build,
		agents: make(map[phase.Phase]Runner),
	}
}

// For returns the runner for p, building it on first use. Concurrent callers
// share one construction, which runs detached from the first caller's
// cancellation. Build errors are returned and nothing is cached.
func (c *AgentCache) For(ctx context.Context, p phase.Phase) (Runner, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown phase %q", p)
	}

	c.mu.RLock()
	r, ok := c.agents[p]
	c.mu.RUnlock()
	if ok {
		return r, nil
	}

	v, err, _ := c.group.Do(string(p), func() (interface{}, error) {
		c.mu.RLock()
		existing, ok := c.agents[p]
		c.mu.RUnlock()
		if ok {
			return existing, nil
		}

		logging.Debug("Session", "building agent for phase %s", p)
		built, err := c.build(context.WithoutCancel(ctx), p)
		if err != nil {
			return nil, fmt.Errorf("failed to build agent for phase %s: %w", p, err)
		}

		c.mu.Lock()
		c.agents[p] = built
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Runner), nil
}

// Len returns the number of built agents.
func (c *AgentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.agents)
}

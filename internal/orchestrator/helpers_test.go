package orchestrator

import (
	"context"
	"errors"
	"sync"

	"normbot/internal/agent"
	"normbot/internal/llm"
	"normbot/internal/phase"
)

// echoRunner answers with a fixed text and records its inputs.
type echoRunner struct {
	phase phase.Phase
	text  string
	err   error

	mu      sync.Mutex
	inputs  []string
	history [][]llm.Message
}

func (r *echoRunner) Run(ctx context.Context, history []llm.Message, input string) (*agent.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, input)
	r.history = append(r.history, history)
	if r.err != nil {
		return nil, r.err
	}
	text := r.text
	if text == "" {
		text = "reply from " + string(r.phase)
	}
	return &agent.Reply{Text: text}, nil
}

// runnerSet builds one echoRunner per phase on demand.
type runnerSet struct {
	mu      sync.Mutex
	runners map[phase.Phase]*echoRunner
	texts   map[phase.Phase]string
	fail    map[phase.Phase]error
	builds  int
}

func newRunnerSet() *runnerSet {
	return &runnerSet{
		runners: make(map[phase.Phase]*echoRunner),
		texts:   make(map[phase.Phase]string),
		fail:    make(map[phase.Phase]error),
	}
}

func (s *runnerSet) build(ctx context.Context, p phase.Phase) (Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds++
	if err := s.fail[p]; err != nil {
		return nil, err
	}
	r := &echoRunner{phase: p, text: s.texts[p]}
	s.runners[p] = r
	return r, nil
}

func (s *runnerSet) runner(p phase.Phase) *echoRunner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runners[p]
}

var errBuild = errors.New("no model configured")

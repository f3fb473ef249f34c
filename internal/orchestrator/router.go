package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"normbot/internal/llm"
	"normbot/internal/phase"
	"normbot/pkg/logging"
)

const routerPreamble = "You are a database normalization expert. Based on the conversation history, " +
	"choose the next step from %s and output a single word only.\n\nConversation:\n%s"

// Router asks the model which phase should run next.
type Router struct {
	model llm.Model
}

// NewRouter creates a router on top of model.
func NewRouter(model llm.Model) *Router {
	return &Router{model: model}
}

// Prompt builds the routing prompt for a transcript.
func Prompt(transcript []Turn) string {
	names := make([]string, 0, len(phase.All()))
	for _, p := range phase.All() {
		names = append(names, strings.ToUpper(string(p)))
	}

	if transcript == nil {
		transcript = []Turn{}
	}
	history, err := json.Marshal(transcript)
	if err != nil {
		history = []byte(fmt.Sprintf("%v", transcript))
	}
	return fmt.Sprintf(routerPreamble, "{"+strings.Join(names, ", ")+"}", history)
}

// Decide returns the phase the model picks for transcript. Any failure or
// answer outside the phase set yields current.
func (r *Router) Decide(ctx context.Context, transcript []Turn, current phase.Phase) phase.Phase {
	if r == nil || r.model == nil {
		return current
	}

	answer, err := llm.Complete(ctx, r.model, Prompt(transcript))
	if err != nil {
		logging.Warn("Router", "routing call failed, staying at %s: %v", current, err)
		return current
	}

	next, ok := phase.Parse(answer)
	if !ok {
		logging.Warn("Router", "router answered %q, staying at %s", answer, current)
		return current
	}

	logging.Debug("Router", "router picked %s (current %s)", next, current)
	return next
}

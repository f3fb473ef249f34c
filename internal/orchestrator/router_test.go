package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"normbot/internal/agent"
	"normbot/internal/llm/llmtest"
	"normbot/internal/phase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt_ListsEveryPhase(t *testing.T) {
	prompt := Prompt([]Turn{UserTurn("raw table", phase.Init), AssistantTurn(&agent.Reply{Text: "ok"}, phase.Init)})

	for _, p := range phase.All() {
		assert.Contains(t, prompt, strings.ToUpper(string(p)))
	}
	assert.Contains(t, prompt, "single word")
	assert.Contains(t, prompt, `"content":"raw table"`)
	assert.Contains(t, Prompt(nil), "Conversation:\n[]")
}

func TestRouter_Decide(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		current phase.Phase
		want    phase.Phase
	}{
		{"upper case", "2NF", phase.First, phase.Second},
		{"padded", "  sql \n", phase.Third, phase.SQL},
		{"report", "report", phase.SQL, phase.Report},
		{"invalid falls back", "banana", phase.Second, phase.Second},
		{"sentence falls back", "I think 3NF", phase.Second, phase.Second},
		{"empty falls back", "", phase.Init, phase.Init},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := llmtest.NewScript().ThenText(tt.answer)
			r := NewRouter(model)
			assert.Equal(t, tt.want, r.Decide(context.Background(), nil, tt.current))
			require.Len(t, model.Requests(), 1)
		})
	}
}

func TestRouter_DecideFailSoft(t *testing.T) {
	model := llmtest.NewScript().ThenError(errors.New("unavailable"))
	assert.Equal(t, phase.Third, NewRouter(model).Decide(context.Background(), nil, phase.Third))

	var nilRouter *Router
	assert.Equal(t, phase.SQL, nilRouter.Decide(context.Background(), nil, phase.SQL))
}

package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	result   *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	return f.result, f.err
}

func candidate(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromParts(parts, genai.RoleModel)}},
	}
}

func TestNewGemini_RequiresKeyAndModel(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{Model: "gemini-2.0-flash"})
	assert.Error(t, err)

	_, err = NewGemini(context.Background(), GeminiConfig{APIKey: "k"})
	assert.Error(t, err)
}

func TestGemini_GenerateBuildsRequest(t *testing.T) {
	fake := &fakeModels{result: candidate(genai.NewPartFromText("1nf"))}
	g := &Gemini{models: fake, model: "gemini-2.0-flash", temperature: 0}

	resp, err := g.Generate(context.Background(), &Request{
		System: "be terse",
		Messages: []Message{
			{Role: RoleUser, Content: "hello"},
		},
		Tools: []ToolSpec{{
			Name:        "execute_query",
			Description: "run SQL",
			Schema:      map[string]any{"type": "object"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "1nf", resp.Text)
	assert.Empty(t, resp.ToolCalls)

	assert.Equal(t, "gemini-2.0-flash", fake.model)
	require.NotNil(t, fake.config.Temperature)
	assert.Equal(t, float32(0), *fake.config.Temperature)
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Equal(t, "be terse", fake.config.SystemInstruction.Parts[0].Text)
	require.Len(t, fake.config.Tools, 1)
	require.Len(t, fake.config.Tools[0].FunctionDeclarations, 1)
	assert.Equal(t, "execute_query", fake.config.Tools[0].FunctionDeclarations[0].Name)
	require.Len(t, fake.contents, 1)
	assert.Equal(t, string(genai.RoleUser), fake.contents[0].Role)
}

func TestGemini_GenerateWrapsErrors(t *testing.T) {
	boom := errors.New("quota")
	g := &Gemini{models: &fakeModels{err: boom}, model: "m"}

	_, err := g.Generate(context.Background(), &Request{})
	assert.ErrorIs(t, err, boom)
}

func TestToGeminiContents_ToolRoundTrip(t *testing.T) {
	contents := toGeminiContents([]Message{
		{Role: RoleUser, Content: "300 4"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "c1", Name: "scale_deployment", Arguments: map[string]any{"replicas": 4}}}},
		{Role: RoleTool, ToolCallID: "c1", Name: "scale_deployment", Content: "scaled to 4"},
		{Role: RoleAssistant},
	})

	require.Len(t, contents, 3, "empty assistant messages are skipped")
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)
	require.NotNil(t, contents[1].Parts[0].FunctionCall)
	assert.Equal(t, "c1", contents[1].Parts[0].FunctionCall.ID)
	assert.Equal(t, "scale_deployment", contents[1].Parts[0].FunctionCall.Name)

	assert.Equal(t, string(genai.RoleUser), contents[2].Role)
	require.NotNil(t, contents[2].Parts[0].FunctionResponse)
	assert.Equal(t, "c1", contents[2].Parts[0].FunctionResponse.ID)
	assert.Equal(t, "scaled to 4", contents[2].Parts[0].FunctionResponse.Response["result"])
}

func TestFromGeminiResponse(t *testing.T) {
	call := genai.NewPartFromFunctionCall("execute_query", map[string]any{"sql": "SHOW DATABASES;"})

	resp, err := fromGeminiResponse(candidate(genai.NewPartFromText("running "), call, genai.NewPartFromText("now")))
	require.NoError(t, err)
	assert.Equal(t, "running now", resp.Text)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "execute_query", resp.ToolCalls[0].Name)
	assert.NotEmpty(t, resp.ToolCalls[0].ID, "missing ids are generated")
	assert.Equal(t, "SHOW DATABASES;", resp.ToolCalls[0].Arguments["sql"])

	_, err = fromGeminiResponse(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

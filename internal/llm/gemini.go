package llm

import (
	"context"
	"fmt"
	"strings"

	"normbot/pkg/logging"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"google.golang.org/genai"
)

// contentGenerator is the slice of *genai.Models that Gemini needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxRetries  int
}

// Gemini is a Model backed by the Google Gen AI SDK.
type Gemini struct {
	models      contentGenerator
	model       string
	temperature float32
}

// NewGemini creates a Gemini model. Transient HTTP failures are retried
// MaxRetries times by the transport.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("Gemini model is required")
	}

	retrying := retryablehttp.NewClient()
	retrying.RetryMax = cfg.MaxRetries
	retrying.Logger = nil

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: retrying.StandardClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	logging.Debug("LLM", "Gemini client ready (model=%s, retries=%d)", cfg.Model, cfg.MaxRetries)
	return &Gemini{
		models:      client.Models,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate implements Model.
func (g *Gemini) Generate(ctx context.Context, req *Request) (*Response, error) {
	contents := toGeminiContents(req.Messages)

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: toFunctionDeclarations(req.Tools)}}
	}

	result, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	return fromGeminiResponse(result)
}

// toGeminiContents maps the conversation onto Gemini's user/model roles.
// System messages are folded into user turns; the system instruction travels
// separately in the request config.
func toGeminiContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleAssistant:
			var parts []*genai.Part
			if m.Content != "" {
				parts = append(parts, genai.NewPartFromText(m.Content))
			}
			for _, call := range m.ToolCalls {
				part := genai.NewPartFromFunctionCall(call.Name, call.Arguments)
				part.FunctionCall.ID = call.ID
				parts = append(parts, part)
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))
		case RoleTool:
			part := genai.NewPartFromFunctionResponse(m.Name, map[string]any{"result": m.Content})
			part.FunctionResponse.ID = m.ToolCallID
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents
}

func toFunctionDeclarations(tools []ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decl := &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
		}
		if t.Schema != nil {
			decl.ParametersJsonSchema = t.Schema
		}
		decls = append(decls, decl)
	}
	return decls
}

func fromGeminiResponse(result *genai.GenerateContentResponse) (*Response, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}

	resp := &Response{}
	var text []string
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			id := part.FunctionCall.ID
			if id == "" {
				id = uuid.NewString()
			}
			resp.ToolCalls = append(resp.ToolCalls, ToolCall{
				ID:        id,
				Name:      part.FunctionCall.Name,
				Arguments: part.FunctionCall.Args,
			})
			continue
		}
		if part.Text != "" && !part.Thought {
			text = append(text, part.Text)
		}
	}
	resp.Text = strings.Join(text, "")
	return resp, nil
}

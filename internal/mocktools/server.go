package mocktools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"normbot/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Call records one tool invocation served by a Server.
type Call struct {
	Tool      string
	Arguments map[string]interface{}
}

// Server is an MCP server built from a Scenario.
type Server struct {
	scenario Scenario
	mcp      *server.MCPServer

	mu    sync.Mutex
	calls []Call
}

// NewServer builds the MCP server for a scenario.
func NewServer(s Scenario) (*Server, error) {
	version := s.Version
	if version == "" {
		version = "1.0.0"
	}

	srv := &Server{
		scenario: s,
		mcp:      server.NewMCPServer(fmt.Sprintf("mock-%s", s.Name), version, server.WithToolCapabilities(false)),
	}

	for _, toolConfig := range s.Tools {
		schema := toolConfig.InputSchema
		if schema == nil {
			schema = map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
		}
		raw, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: invalid input schema: %w", toolConfig.Name, err)
		}

		handler := &toolHandler{config: toolConfig}
		srv.mcp.AddTool(
			mcp.NewToolWithRawSchema(toolConfig.Name, toolConfig.Description, raw),
			srv.handlerFor(handler),
		)
	}

	logging.Debug("MockServer", "Mock MCP server '%s' initialized with %d tools", s.Name, len(s.Tools))
	return srv, nil
}

func (s *Server) handlerFor(h *toolHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		s.mu.Lock()
		s.calls = append(s.calls, Call{Tool: h.config.Name, Arguments: args})
		s.mu.Unlock()

		text, isError, err := h.handleCall(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if isError {
			return mcp.NewToolResultError(text), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

// Name returns the scenario name.
func (s *Server) Name() string { return s.scenario.Name }

// MCPServer exposes the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

// Calls returns the invocations served so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// ServeStdio serves the scenario on stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// NewInProcessClient starts an mcp-go client connected directly to the server.
func (s *Server) NewInProcessClient(ctx context.Context) (*client.Client, error) {
	c, err := client.NewInProcessClient(s.mcp)
	if err != nil {
		return nil, fmt.Errorf("in-process client for %s: %w", s.scenario.Name, err)
	}
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("start in-process client for %s: %w", s.scenario.Name, err)
	}
	return c, nil
}

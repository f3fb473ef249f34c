package aggregator

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrNoTools is returned when no tools were loaded across all servers.
	ErrNoTools = errors.New("MCP tools not loaded")

	// ErrUnknownTool is returned when a call names a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
)

// MCPClient defines the subset of MCP client operations the registry needs.
type MCPClient interface {
	// Initialize performs the protocol handshake
	Initialize(ctx context.Context) error

	// ListTools returns all available tools from the server
	ListTools(ctx context.Context) ([]mcp.Tool, error)

	// CallTool executes a specific tool and returns the result
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error)

	// Close cleanly shuts down the client connection
	Close() error
}

// Tool is a registered tool as exposed to the agents.
type Tool struct {
	Name         string         // Exposed name, unique across servers
	Server       string         // Server that owns the tool
	OriginalName string         // Name as reported by the server
	Description  string
	InputSchema  map[string]any // JSON Schema for the arguments
}

// ServerInfo holds information about a connected MCP server
type ServerInfo struct {
	Name   string
	Client MCPClient
	Tools  []mcp.Tool
}

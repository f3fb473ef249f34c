package aggregator

import (
	"context"
	"fmt"

	"normbot/internal/config"
	"normbot/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	clientName    = "normbot"
	clientVersion = "1.0.0"
)

// Dialer opens a client connection for a configured server.
type Dialer func(ctx context.Context, name string, server config.MCPServer) (MCPClient, error)

// StdioDialer launches the server as a subprocess and talks to it over stdio.
// The subprocess inherits the current environment plus the configured env.
func StdioDialer(_ context.Context, name string, server config.MCPServer) (MCPClient, error) {
	logging.Info("Aggregator", "Starting MCP server %s: %s %v", name, server.Command, server.Args)

	stdioClient, err := client.NewStdioMCPClient(server.Command, server.EnvList(), server.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to start MCP server %s: %w", name, err)
	}
	return NewClient(name, stdioClient), nil
}

// mcpClient adapts an mcp-go client to MCPClient.
type mcpClient struct {
	name   string
	client client.MCPClient
}

// NewClient wraps an already started mcp-go client.
func NewClient(name string, c client.MCPClient) MCPClient {
	return &mcpClient{name: name, client: c}
}

// Initialize performs the MCP protocol handshake
func (c *mcpClient) Initialize(ctx context.Context) error {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}
	req.Params.Capabilities = mcp.ClientCapabilities{}

	result, err := c.client.Initialize(ctx, req)
	if err != nil {
		return fmt.Errorf("initialize %s: %w", c.name, err)
	}

	logging.Debug("Aggregator", "Initialized %s (server %s %s, protocol %s)",
		c.name, result.ServerInfo.Name, result.ServerInfo.Version, result.ProtocolVersion)
	return nil
}

// ListTools lists all available tools
func (c *mcpClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	result, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("tools/list %s: %w", c.name, err)
	}
	return result.Tools, nil
}

// CallTool executes a tool and returns the result
func (c *mcpClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	logging.Debug("Aggregator", "tools/call %s.%s %s", c.name, name, prettyJSON(args))

	result, err := c.client.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tools/call %s.%s: %w", c.name, name, err)
	}
	return result, nil
}

// Close closes the connection and, for stdio servers, stops the subprocess.
func (c *mcpClient) Close() error {
	return c.client.Close()
}

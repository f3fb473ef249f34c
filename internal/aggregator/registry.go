package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"normbot/internal/config"
	"normbot/internal/llm"
	"normbot/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

// Registry aggregates the tools of every connected MCP server.
type Registry struct {
	servers map[string]*ServerInfo
	order   []string
	tracker *NameTracker
	tools   []Tool
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		servers: make(map[string]*ServerInfo),
		tracker: NewNameTracker(),
	}
}

// Connect dials every configured server in name order, registers its tools and
// returns the populated registry. Any connection failure, or a total of zero
// tools, closes the servers opened so far and returns an error.
func Connect(ctx context.Context, cfg config.Config, dial Dialer) (*Registry, error) {
	if len(cfg.MCPServers) == 0 {
		return nil, config.ErrNoServers
	}
	if dial == nil {
		dial = StdioDialer
	}

	r := NewRegistry()
	for _, name := range cfg.ServerNames() {
		logging.Info("Aggregator", "Connecting to MCP Server: %s", name)

		c, err := dial(ctx, name, cfg.MCPServers[name])
		if err != nil {
			r.Close()
			return nil, err
		}
		if err := r.Register(ctx, name, c); err != nil {
			c.Close()
			r.Close()
			return nil, err
		}
	}

	if r.Len() == 0 {
		r.Close()
		return nil, ErrNoTools
	}
	return r, nil
}

// Register initializes a client, lists its tools and adds it to the registry.
func (r *Registry) Register(ctx context.Context, name string, client MCPClient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.servers[name]; exists {
		return fmt.Errorf("server %s already registered", name)
	}

	if err := client.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize client for %s: %w", name, err)
	}

	tools, err := client.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tools for %s: %w", name, err)
	}
	seen := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("server %s lists tool %s more than once", name, t.Name)
		}
		seen[t.Name] = struct{}{}
	}

	r.servers[name] = &ServerInfo{Name: name, Client: client, Tools: tools}
	r.order = append(r.order, name)
	r.rebuild()

	logging.Info("Aggregator", "Loaded %d tools from %s", len(tools), name)
	return nil
}

// rebuild recomputes exposed names. Callers hold r.mu.
func (r *Registry) rebuild() {
	r.tracker.RebuildMappings(r.order, r.servers)

	r.tools = r.tools[:0]
	for _, serverName := range r.order {
		for _, t := range r.servers[serverName].Tools {
			r.tools = append(r.tools, Tool{
				Name:         r.tracker.GetExposedToolName(serverName, t.Name),
				Server:       serverName,
				OriginalName: t.Name,
				Description:  t.Description,
				InputSchema:  schemaOf(t),
			})
		}
	}
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Tools returns the registered tools in server then discovery order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Servers returns the registered server names in registration order.
func (r *Registry) Servers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Specs describes every tool for the language model.
func (r *Registry) Specs() []llm.ToolSpec {
	tools := r.Tools()
	specs := make([]llm.ToolSpec, 0, len(tools))
	for _, t := range tools {
		specs = append(specs, llm.ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			Schema:      t.InputSchema,
		})
	}
	return specs
}

// Call invokes a tool by exposed name and returns its text output. A result
// flagged as an error by the server is returned as an error carrying the
// server's text.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	serverName, originalName, err := r.tracker.ResolveName(name)
	if err != nil {
		return "", err
	}

	r.mu.RLock()
	info, ok := r.servers[serverName]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	result, err := info.Client.CallTool(ctx, originalName, args)
	if err != nil {
		return "", err
	}

	text := resultText(result)
	if result.IsError {
		return "", fmt.Errorf("tool %s failed: %s", name, text)
	}
	return text, nil
}

// Close closes every server connection.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, name := range r.order {
		if err := r.servers[name].Client.Close(); err != nil {
			logging.Warn("Aggregator", "Error closing client for %s: %v", name, err)
			errs = append(errs, err)
		}
	}
	r.servers = make(map[string]*ServerInfo)
	r.order = nil
	r.tools = nil
	return errors.Join(errs...)
}

// resultText flattens tool result content. Text parts are joined by newlines;
// other content kinds are rendered as JSON.
func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if textContent, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, textContent.Text)
			continue
		}
		parts = append(parts, compactJSON(content))
	}
	return strings.Join(parts, "\n")
}

// schemaOf returns the tool input schema as a generic JSON object.
func schemaOf(t mcp.Tool) map[string]any {
	raw := []byte(t.RawInputSchema)
	if len(raw) == 0 {
		var err error
		raw, err = json.Marshal(t.InputSchema)
		if err != nil {
			return nil
		}
	}

	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		logging.Warn("Aggregator", "Ignoring unreadable input schema for %s: %v", t.Name, err)
		return nil
	}
	if schema == nil {
		schema = map[string]any{}
	}
	if _, ok := schema["type"]; !ok {
		schema["type"] = "object"
	}
	return schema
}

func compactJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

// Pretty-print JSON for logging
func prettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

package aggregator

import (
	"context"
	"errors"
	"sort"
	"testing"

	"normbot/internal/config"
	"normbot/internal/mocktools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedKeys(m map[string]*ServerInfo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fakeClient is a scripted MCPClient.
type fakeClient struct {
	tools    []mcp.Tool
	initErr  error
	listErr  error
	result   *mcp.CallToolResult
	callErr  error
	called   []string
	closed   bool
	closeErr error
}

func (f *fakeClient) Initialize(ctx context.Context) error { return f.initErr }

func (f *fakeClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return f.tools, f.listErr
}

func (f *fakeClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	f.called = append(f.called, name)
	if f.callErr != nil {
		return nil, f.callErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return mcp.NewToolResultText("ok:" + name), nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return f.closeErr
}

func toolsNamed(names ...string) []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(names))
	for _, n := range names {
		tools = append(tools, mcp.NewTool(n, mcp.WithDescription("does "+n)))
	}
	return tools
}

func configFor(names ...string) config.Config {
	cfg := config.GetDefaultConfig()
	cfg.MCPServers = map[string]config.MCPServer{}
	for _, n := range names {
		cfg.MCPServers[n] = config.MCPServer{Command: n + "-server"}
	}
	return cfg
}

func dialerFor(clients map[string]*fakeClient) Dialer {
	return func(ctx context.Context, name string, server config.MCPServer) (MCPClient, error) {
		c, ok := clients[name]
		if !ok {
			return nil, errors.New("no such server")
		}
		return c, nil
	}
}

func TestConnect_AggregatesToolsFromAllServers(t *testing.T) {
	clients := map[string]*fakeClient{
		"mysql": {tools: toolsNamed("execute_query", "list_tables", "describe")},
		"k8s":   {tools: toolsNamed("scale_deployment", "get_latency")},
	}

	r, err := Connect(context.Background(), configFor("mysql", "k8s"), dialerFor(clients))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 5, r.Len())
	assert.Equal(t, []string{"k8s", "mysql"}, r.Servers())

	var names []string
	for _, tool := range r.Tools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"scale_deployment", "get_latency", "execute_query", "list_tables", "describe"}, names)

	specs := r.Specs()
	require.Len(t, specs, 5)
	assert.Equal(t, "scale_deployment", specs[0].Name)
	assert.Equal(t, "does scale_deployment", specs[0].Description)
	assert.Equal(t, "object", specs[0].Schema["type"])
}

func TestConnect_ConflictingNamesArePrefixed(t *testing.T) {
	clients := map[string]*fakeClient{
		"mysql":    {tools: toolsNamed("execute_query", "health")},
		"postgres": {tools: toolsNamed("health")},
	}

	r, err := Connect(context.Background(), configFor("mysql", "postgres"), dialerFor(clients))
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, tool := range r.Tools() {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"execute_query", "mysql.health", "postgres.health"}, names)

	out, err := r.Call(context.Background(), "postgres.health", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok:health", out)
	assert.Equal(t, []string{"health"}, clients["postgres"].called)
	assert.Empty(t, clients["mysql"].called)
}

func TestConnect_Failures(t *testing.T) {
	t.Run("no servers", func(t *testing.T) {
		_, err := Connect(context.Background(), configFor(), dialerFor(nil))
		assert.ErrorIs(t, err, config.ErrNoServers)
	})

	t.Run("zero tools", func(t *testing.T) {
		clients := map[string]*fakeClient{"empty": {}}
		_, err := Connect(context.Background(), configFor("empty"), dialerFor(clients))
		assert.ErrorIs(t, err, ErrNoTools)
		assert.True(t, clients["empty"].closed)
	})

	t.Run("dial failure closes earlier servers", func(t *testing.T) {
		clients := map[string]*fakeClient{"a": {tools: toolsNamed("x")}}
		_, err := Connect(context.Background(), configFor("a", "b"), dialerFor(clients))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such server")
		assert.True(t, clients["a"].closed)
	})

	t.Run("initialize failure", func(t *testing.T) {
		clients := map[string]*fakeClient{"a": {initErr: errors.New("handshake refused")}}
		_, err := Connect(context.Background(), configFor("a"), dialerFor(clients))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize client for a")
		assert.True(t, clients["a"].closed)
	})

	t.Run("list failure", func(t *testing.T) {
		clients := map[string]*fakeClient{"a": {listErr: errors.New("boom")}}
		_, err := Connect(context.Background(), configFor("a"), dialerFor(clients))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list tools for a")
	})

	t.Run("server repeats a tool name", func(t *testing.T) {
		clients := map[string]*fakeClient{"a": {tools: toolsNamed("x", "y", "x")}}
		_, err := Connect(context.Background(), configFor("a"), dialerFor(clients))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server a lists tool x more than once")
		assert.True(t, clients["a"].closed)
	})
}

func TestRegistry_RegisterTwice(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(context.Background(), "a", &fakeClient{tools: toolsNamed("x")}))
	err := r.Register(context.Background(), "a", &fakeClient{tools: toolsNamed("y")})
	assert.Error(t, err)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Call(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown tool", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ctx, "a", &fakeClient{tools: toolsNamed("x")}))
		_, err := r.Call(ctx, "nope", nil)
		assert.ErrorIs(t, err, ErrUnknownTool)
	})

	t.Run("error result becomes error", func(t *testing.T) {
		r := NewRegistry()
		c := &fakeClient{tools: toolsNamed("x"), result: mcp.NewToolResultError("table missing")}
		require.NoError(t, r.Register(ctx, "a", c))
		_, err := r.Call(ctx, "x", nil)
		require.Error(t, err)
		assert.Equal(t, "tool x failed: table missing", err.Error())
	})

	t.Run("transport error", func(t *testing.T) {
		r := NewRegistry()
		c := &fakeClient{tools: toolsNamed("x"), callErr: errors.New("broken pipe")}
		require.NoError(t, r.Register(ctx, "a", c))
		_, err := r.Call(ctx, "x", nil)
		assert.ErrorContains(t, err, "broken pipe")
	})
}

func TestRegistry_CloseJoinsErrors(t *testing.T) {
	r := NewRegistry()
	a := &fakeClient{tools: toolsNamed("x"), closeErr: errors.New("a failed")}
	b := &fakeClient{tools: toolsNamed("y")}
	require.NoError(t, r.Register(context.Background(), "a", a))
	require.NoError(t, r.Register(context.Background(), "b", b))

	err := r.Close()
	assert.ErrorContains(t, err, "a failed")
	assert.True(t, a.closed)
	assert.True(t, b.closed)
	assert.Equal(t, 0, r.Len())
}

func TestSchemaOf(t *testing.T) {
	raw := mcp.NewToolWithRawSchema("q", "", []byte(`{"type":"object","properties":{"query":{"type":"string"}}}`))
	schema := schemaOf(raw)
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"], "query")

	typed := mcp.NewTool("t", mcp.WithString("name", mcp.Required()))
	schema = schemaOf(typed)
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"], "name")
}

const mysqlScenario = `
name: mysql
tools:
  - name: execute_query
    description: Run a SQL statement
    inputSchema:
      type: object
      properties:
        query: {type: string}
    responses:
      - condition: {query: "SHOW DATABASES;"}
        response: "normbot\ninformation_schema"
      - response: "executed: {{ .query }}"
`

func TestRegistry_InProcessMockServer(t *testing.T) {
	ctx := context.Background()

	scenario, err := mocktools.ParseScenario([]byte(mysqlScenario))
	require.NoError(t, err)
	srv, err := mocktools.NewServer(scenario)
	require.NoError(t, err)

	dial := func(ctx context.Context, name string, _ config.MCPServer) (MCPClient, error) {
		c, err := srv.NewInProcessClient(ctx)
		if err != nil {
			return nil, err
		}
		return NewClient(name, c), nil
	}

	r, err := Connect(ctx, configFor("mysql"), dial)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 1, r.Len())
	tool := r.Tools()[0]
	assert.Equal(t, "execute_query", tool.Name)
	assert.Equal(t, "mysql", tool.Server)
	assert.Contains(t, tool.InputSchema["properties"], "query")

	out, err := r.Call(ctx, "execute_query", map[string]any{"query": "SHOW DATABASES;"})
	require.NoError(t, err)
	assert.Equal(t, "normbot\ninformation_schema", out)

	out, err = r.Call(ctx, "execute_query", map[string]any{"query": "DESCRIBE users;"})
	require.NoError(t, err)
	assert.Equal(t, "executed: DESCRIBE users;", out)

	calls := srv.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "execute_query", calls[0].Tool)
}

// Package aggregator builds the tool registry shared by every agent.
//
// At startup the registry launches each configured MCP server, performs the
// initialize handshake, lists its tools and keeps the connection open for the
// lifetime of the process. Tools from all servers are exposed under a single
// flat namespace: a tool keeps its original name unless another server offers
// a tool with the same name, in which case both are exposed as
// "<server>.<tool>".
//
// The registry is populated once and read-only afterwards. Calls are routed
// back to the owning server by exposed name.
package aggregator

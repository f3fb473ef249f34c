package config

import (
	"fmt"
	"sort"
)

// Config is the top-level configuration structure for normbot.
type Config struct {
	MCPServers map[string]MCPServer `yaml:"mcpServers" json:"mcpServers"`
	LLM        LLMConfig            `yaml:"llm,omitempty" json:"llm,omitempty"`
	Agent      AgentConfig          `yaml:"agent,omitempty" json:"agent,omitempty"`
	History    HistoryConfig        `yaml:"history,omitempty" json:"history,omitempty"`
}

// MCPServer describes one tool server subprocess to launch.
type MCPServer struct {
	Command string            `yaml:"command" json:"command"`
	Args    []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// LLMConfig selects and tunes the language model backend.
type LLMConfig struct {
	Model       string  `yaml:"model,omitempty" json:"model,omitempty"`
	Temperature float32 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	MaxRetries  *int    `yaml:"maxRetries,omitempty" json:"maxRetries,omitempty"` // nil means DefaultMaxRetries, 0 disables retries
	APIKeyEnv   string  `yaml:"apiKeyEnv,omitempty" json:"apiKeyEnv,omitempty"` // Environment variable holding the API key
}

// Retries returns the transport retry budget.
func (c LLMConfig) Retries() int {
	if c.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *c.MaxRetries
}

// AgentConfig tunes the tool-calling reasoning agents.
type AgentConfig struct {
	MaxIterations int `yaml:"maxIterations,omitempty" json:"maxIterations,omitempty"`
}

// HistoryConfig enables transcript persistence. An empty path disables it.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// EnvList renders the server environment as sorted KEY=VALUE pairs.
func (s MCPServer) EnvList() []string {
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, s.Env[k]))
	}
	return env
}

// ServerNames returns the configured server names in sorted order.
func (c Config) ServerNames() []string {
	names := make([]string, 0, len(c.MCPServers))
	for name := range c.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

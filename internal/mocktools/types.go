package mocktools

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes one mock MCP server.
type Scenario struct {
	Name    string       `yaml:"name"`
	Version string       `yaml:"version,omitempty"`
	Tools   []ToolConfig `yaml:"tools"`
}

// ToolConfig describes one mock tool.
type ToolConfig struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description,omitempty"`
	InputSchema map[string]interface{} `yaml:"inputSchema,omitempty"`
	Responses   []ToolResponse         `yaml:"responses"`
}

// ToolResponse is one canned answer. Condition maps argument names to the
// values they must have.
type ToolResponse struct {
	Condition map[string]interface{} `yaml:"condition,omitempty"`
	Response  string                 `yaml:"response,omitempty"`
	Error     string                 `yaml:"error,omitempty"`
	Delay     string                 `yaml:"delay,omitempty"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if s.Name == "" {
		return Scenario{}, fmt.Errorf("scenario name is required")
	}

	seen := make(map[string]bool, len(s.Tools))
	for _, t := range s.Tools {
		if t.Name == "" {
			return Scenario{}, fmt.Errorf("scenario %s: tool without name", s.Name)
		}
		if seen[t.Name] {
			return Scenario{}, fmt.Errorf("scenario %s: duplicate tool %s", s.Name, t.Name)
		}
		seen[t.Name] = true
	}
	return s, nil
}

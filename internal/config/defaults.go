package config

const (
	DefaultModel         = "gemini-2.0-flash"
	DefaultMaxRetries    = 3
	DefaultAPIKeyEnv     = "GOOGLE_API_KEY"
	DefaultMaxIterations = 8
)

// GetDefaultConfig returns the configuration used as the base before a file is applied.
// It has no MCP servers; those always come from the file.
func GetDefaultConfig() Config {
	return Config{
		MCPServers: map[string]MCPServer{},
		LLM: LLMConfig{
			Model:       DefaultModel,
			Temperature: 0,
			MaxRetries:  intPtr(DefaultMaxRetries),
			APIKeyEnv:   DefaultAPIKeyEnv,
		},
		Agent: AgentConfig{
			MaxIterations: DefaultMaxIterations,
		},
	}
}

// applyDefaults fills zero-valued optional settings.
func applyDefaults(cfg Config) Config {
	def := GetDefaultConfig()
	if cfg.MCPServers == nil {
		cfg.MCPServers = def.MCPServers
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.MaxRetries == nil {
		cfg.LLM.MaxRetries = def.LLM.MaxRetries
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = def.LLM.APIKeyEnv
	}
	if cfg.Agent.MaxIterations <= 0 {
		cfg.Agent.MaxIterations = def.Agent.MaxIterations
	}
	return cfg
}

func intPtr(v int) *int {
	return &v
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"normbot/pkg/logging"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var (
	osGetenv     = os.Getenv
	osExecutable = os.Executable
	osGetwd      = os.Getwd
)

const (
	configEnvVar   = "CONFIG"
	configFileName = "config.json"
)

var (
	// ErrNoServers is returned when the configuration lists no MCP servers.
	ErrNoServers = errors.New("no MCP servers in config")
)

// ResolvePath picks the configuration file path. An explicit path wins, then
// the CONFIG environment variable, then config.json next to the executable,
// then config.json in the working directory.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := osGetenv(configEnvVar); p != "" {
		return p
	}

	var fallback string
	if exe, err := osExecutable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), configFileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			fallback = candidate
		}
	}
	if fallback == "" {
		wd, err := osGetwd()
		if err != nil {
			wd = "."
		}
		fallback = filepath.Join(wd, configFileName)
	}

	logging.Warn("Config", "%s not set. Falling back to: %s", configEnvVar, fallback)
	return fallback
}

// Load reads, defaults and validates the configuration file at path.
func Load(path string) (Config, error) {
	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file at '%s': %w", path, err)
	}

	cfg = applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Debug("Config", "Loaded %d MCP server definitions from %s", len(cfg.MCPServers), path)
	return cfg, nil
}

// loadConfigFromFile decodes a Config from a JSON or YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks that at least one server is configured and that every server
// has a command.
func (c Config) Validate() error {
	if len(c.MCPServers) == 0 {
		return ErrNoServers
	}
	for _, name := range c.ServerNames() {
		if c.MCPServers[name].Command == "" {
			return fmt.Errorf("MCP server %q: command is required", name)
		}
	}
	if c.LLM.Temperature < 0 {
		return fmt.Errorf("llm temperature must not be negative, got %v", c.LLM.Temperature)
	}
	if c.LLM.Retries() < 0 {
		return fmt.Errorf("llm maxRetries must not be negative, got %d", c.LLM.Retries())
	}
	return nil
}

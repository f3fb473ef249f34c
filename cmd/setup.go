package cmd

import (
	"context"
	"fmt"
	"os"

	"normbot/internal/aggregator"
	"normbot/internal/cli"
	"normbot/internal/config"
	"normbot/internal/history"
	"normbot/internal/llm"
	"normbot/pkg/logging"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// Hooks replaced in tests.
var (
	dialServer aggregator.Dialer = aggregator.StdioDialer
	newModel                     = newGeminiModel
	lookupEnv                    = os.LookupEnv
)

// session is everything a chat command needs once startup succeeded.
type session struct {
	cfg      config.Config
	registry *aggregator.Registry
	model    llm.Model
	store    *history.Store
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logging.Warn("History", "failed to close history store: %v", err)
		}
	}
	if s.registry != nil {
		if err := s.registry.Close(); err != nil {
			logging.Warn("Aggregator", "failed to close MCP clients: %v", err)
		}
	}
}

// recorder returns the history store, or nil when history is disabled.
func (s *session) recorder() cli.Recorder {
	if s.store == nil {
		return nil
	}
	return s.store
}

func loadConfig() (config.Config, error) {
	path := config.ResolvePath(configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	logging.Info("Config", "Loaded %d MCP servers from %s", len(cfg.MCPServers), path)
	return cfg, nil
}

func connectTools(ctx context.Context, cfg config.Config) (*aggregator.Registry, error) {
	registry, err := aggregator.Connect(ctx, cfg, dialServer)
	if err != nil {
		return nil, err
	}
	logging.Info("Aggregator", "Loaded %d tools from %d servers", registry.Len(), len(registry.Servers()))
	return registry, nil
}

// startSession loads config, connects every tool server, creates the model
// and opens the history store. Any failure is fatal.
func startSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	s.model, err = newModel(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	s.registry, err = connectTools(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.History.Path != "" {
		s.store, err = history.Open(cfg.History.Path)
		if err != nil {
			s.Close()
			return nil, err
		}
		logging.Info("History", "Recording sessions to %s", cfg.History.Path)
	}
	return s, nil
}

func newGeminiModel(ctx context.Context, cfg config.LLMConfig) (llm.Model, error) {
	apiKey, ok := lookupEnv(cfg.APIKeyEnv)
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("missing API key: set %s", cfg.APIKeyEnv)
	}
	return llm.NewGemini(ctx, llm.GeminiConfig{
		APIKey:      apiKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxRetries:  cfg.Retries(),
	})
}

// newLineReader uses readline on an interactive stdin and plain line
// scanning otherwise.
func newLineReader(cmd *cobra.Command) (cli.LineReader, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		return cli.NewTerminalReader(cli.Prompt, "")
	}
	return cli.NewStreamReader(in, cmd.OutOrStdout(), cli.Prompt), nil
}

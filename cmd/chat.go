package cmd

import (
	"fmt"

	"normbot/internal/agent"
	"normbot/internal/cli"
	"normbot/internal/orchestrator"

	"github.com/spf13/cobra"
)

const chatInstruction = `You are a MySQL assistant. Turn every user request into calls of the execute_query tool and answer from the results.
For example "show db" becomes SHOW DATABASES; and describing a table becomes DESCRIBE table_name;.
Always use the tool instead of guessing.`

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a single tool-using agent",
	Long: `Starts a chat with one agent that can call every configured tool.
The whole conversation is sent to the model on every turn.
Type 'quit' to exit.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := startSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := agent.New(s.model, s.registry,
		agent.WithSystemPrompt(chatInstruction),
		agent.WithMaxIterations(s.cfg.Agent.MaxIterations),
	)
	if err != nil {
		return err
	}

	reader, err := newLineReader(cmd)
	if err != nil {
		return err
	}

	loop := cli.NewLoop(orchestrator.NewChat(a), reader, cli.Options{
		Mode:     "chat",
		Banner:   fmt.Sprintf("normbot chat: %d tools. Type 'quit' to exit.", s.registry.Len()),
		Out:      cmd.OutOrStdout(),
		Recorder: s.recorder(),
	})
	_, err = loop.Run(ctx)
	return err
}

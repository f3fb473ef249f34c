package cmd

import (
	"fmt"

	"normbot/internal/mocktools"
	"normbot/pkg/logging"

	"github.com/spf13/cobra"
)

var mockScenario string

// mockServerCmd represents the mock-server command
var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve a scripted MCP server on stdio",
	Long: `Serves the tools described in a scenario file over stdio, answering
every call with the canned responses of the scenario. Point a config.json
entry at 'normbot mock-server --scenario file.yaml' to try normbot without
a real database.`,
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func init() {
	rootCmd.AddCommand(mockServerCmd)

	mockServerCmd.Flags().StringVar(&mockScenario, "scenario", "", "Scenario file (YAML)")
	_ = mockServerCmd.MarkFlagRequired("scenario")
}

func runMockServer(cmd *cobra.Command, args []string) error {
	scenario, err := mocktools.LoadScenario(mockScenario)
	if err != nil {
		return err
	}

	srv, err := mocktools.NewServer(scenario)
	if err != nil {
		return err
	}

	logging.Info("MockServer", "Serving scenario %s with %d tools on stdio", scenario.Name, len(scenario.Tools))
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mock server %s: %w", scenario.Name, err)
	}
	return nil
}

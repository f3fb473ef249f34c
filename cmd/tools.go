package cmd

import (
	"normbot/internal/cli"

	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools exposed by the configured MCP servers",
	Long: `Connects to every configured MCP server and prints the aggregated tool
table. Tools whose names clash across servers are shown as server.tool.`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, err := connectTools(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	cli.RenderTools(cmd.OutOrStdout(), registry.Tools())
	return nil
}

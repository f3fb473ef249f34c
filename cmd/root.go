package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"normbot/internal/color"
	"normbot/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	lightMode  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "normbot",
	Short: "Chat with an LLM that drives MCP tool servers",
	Long: `normbot connects a Gemini model to the MCP tool servers listed in
config.json and runs an interactive session on top of them.

'normbot route' walks a table through database normalization
(init, 1NF, 2NF, 3NF, SQL, report) with one agent per phase.
'normbot chat' is a plain tool-using chat with full history.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. missing config, failed connections)
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logging.LevelInfo
		if verbose {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, cmd.ErrOrStderr())
		color.Initialize(!lightMode)
		return nil
	},
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "normbot version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra prints the error, we just exit non-zero
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json (default: $CONFIG, next to the executable, or ./config.json)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&lightMode, "light", false, "Use colors for a light terminal background")

	rootCmd.AddCommand(newVersionCmd())
}

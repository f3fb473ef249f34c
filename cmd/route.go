package cmd

import (
	"fmt"

	"normbot/internal/cli"
	"normbot/internal/orchestrator"

	"github.com/spf13/cobra"
)

var (
	routePolicy string
	routeAdvise bool
)

// routeCmd represents the route command
var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Walk a table through database normalization",
	Long: `Runs the phase-sequencing session: init, 1nf, 2nf, 3nf, sql, report.

Each phase is served by its own agent bound to the phase instruction and
every configured tool. With the default linear policy the phases run in
order, one per input line. With --policy router an LLM router picks the
phase to run for every turn.

The session restarts from init once the report phase answers with
FINAL ANSWER. Type 'quit' to exit.`,
	Args: cobra.NoArgs,
	RunE: runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)

	routeCmd.Flags().StringVar(&routePolicy, "policy", string(orchestrator.PolicyLinear), "Routing policy (linear, router)")
	routeCmd.Flags().BoolVar(&routeAdvise, "advise", false, "With the linear policy, also log what the router would pick")
}

func runRoute(cmd *cobra.Command, args []string) error {
	policy, err := orchestrator.ParsePolicy(routePolicy)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := startSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	agents := orchestrator.NewAgentCache(orchestrator.PhaseAgentBuilder(s.model, s.registry, s.cfg.Agent.MaxIterations))
	opts := []orchestrator.MachineOption{orchestrator.WithPolicy(policy)}
	if policy == orchestrator.PolicyRouter || routeAdvise {
		opts = append(opts, orchestrator.WithRouter(orchestrator.NewRouter(s.model)))
	}
	machine := orchestrator.NewMachine(agents, opts...)

	reader, err := newLineReader(cmd)
	if err != nil {
		return err
	}

	loop := cli.NewLoop(machine, reader, cli.Options{
		Mode:     "route",
		Banner:   fmt.Sprintf("normbot route: %d tools, %s policy. Type 'quit' to exit.", s.registry.Len(), policy),
		Out:      cmd.OutOrStdout(),
		Recorder: s.recorder(),
	})
	_, err = loop.Run(ctx)
	return err
}

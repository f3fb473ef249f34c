// Package orchestrator drives multi-turn sessions through the normalization
// phases.
//
// A session is an immutable State value: the pending user input, the
// transcript so far and the phase that will run next. Step consumes a State
// and returns the following one; it never mutates its argument, so a failed
// step leaves the caller holding the state it started from.
//
// # Phases
//
// The machine walks the closed phase set in order:
//
//	init -> 1nf -> 2nf -> 3nf -> sql -> report
//
// and stays at report until the report agent answers with the FINAL ANSWER
// sentinel, at which point the caller resets to a fresh session.
//
// # Policies
//
// Two routing policies are supported:
//
//   - PolicyLinear (default): execute the current phase, advance to its
//     successor. When a Router is configured its suggestion is logged but
//     never applied.
//   - PolicyRouter: ask the Router which phase to execute; the executed phase
//     becomes the next state's phase.
//
// # Agents
//
// Each phase is served by one agent bound to the phase instruction and the
// full tool set. Agents are built on first use by an AgentCache and reused
// for the rest of the process; concurrent lookups for the same phase share a
// single construction.
//
// # Usage Example
//
//	agents := orchestrator.NewAgentCache(orchestrator.PhaseAgentBuilder(model, registry, 8))
//	m := orchestrator.NewMachine(agents, orchestrator.WithPolicy(orchestrator.PolicyLinear))
//
//	state := orchestrator.Fresh()
//	state, err := m.Step(ctx, state, "here is my table: ...")
//	if orchestrator.ShouldReset(state) {
//	    state = orchestrator.Fresh()
//	}
package orchestrator

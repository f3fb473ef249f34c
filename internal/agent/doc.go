// Package agent implements the tool-using reasoning agent.
//
// An Agent is bound to a language model, a Toolbox and a system prompt. Run
// sends the conversation to the model; whenever the model asks for tools the
// agent invokes them, feeds the results back and asks again, until the model
// answers with plain text or the iteration limit is reached. The whole
// exchange is one request/response from the caller's point of view.
//
// Tool failures never abort a run: the failure text is handed back to the
// model as the tool result, so whatever the model makes of it ends up in the
// final reply.
//
// Agents hold no per-run state and are safe to reuse across turns.
//
// Example usage:
//
//	a, err := agent.New(model, registry,
//	    agent.WithSystemPrompt(phase.Instruction(phase.SQL)),
//	    agent.WithMaxIterations(8),
//	)
//	if err != nil {
//	    return err
//	}
//	reply, err := a.Run(ctx, nil, "create the tables")
package agent

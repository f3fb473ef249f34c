// Package cli implements the interactive loop shared by the route and chat
// commands.
//
// The loop reads one line per turn, hands it to an orchestrator.Stepper and
// prints the latest reply as indented JSON. Typing quit (any case) or sending
// EOF ends the loop. Blank lines are ignored. A failed turn prints the error
// and keeps the session state, so the same input can be retried.
//
// When the last reply opens with the FINAL ANSWER sentinel the session is
// reset: the transcript is dropped and the phase returns to init, while the
// tool registry and cached agents stay alive.
//
// Optionally every turn is recorded through a Recorder such as the SQLite
// history store.
package cli

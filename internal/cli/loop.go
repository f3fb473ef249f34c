package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"normbot/internal/color"
	"normbot/internal/history"
	"normbot/internal/orchestrator"
	"normbot/pkg/logging"
)

// Prompt is shown before every input line.
const Prompt = "Query: "

// ErrInterrupt is returned by a LineReader when the user presses Ctrl-C.
var ErrInterrupt = errors.New("interrupt")

// Recorder persists session transcripts.
type Recorder interface {
	StartSession(id, mode string) error
	EndSession(id, reason string) error
	AppendTurns(sessionID string, firstSeq int, turns []history.Turn) error
}

// Options configures a Loop.
type Options struct {
	// Mode labels recorded sessions, e.g. "route" or "chat".
	Mode string

	// Banner is printed once before the first prompt.
	Banner string

	Out      io.Writer
	Recorder Recorder
}

// Loop is the read-step-print loop.
type Loop struct {
	stepper orchestrator.Stepper
	reader  LineReader
	opts    Options
}

// NewLoop creates a loop reading from reader and stepping with stepper.
func NewLoop(stepper orchestrator.Stepper, reader LineReader, opts Options) *Loop {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Loop{stepper: stepper, reader: reader, opts: opts}
}

// Run drives the loop until quit, EOF or context cancellation and returns
// the final session state.
func (l *Loop) Run(ctx context.Context) (orchestrator.State, error) {
	defer l.reader.Close()

	state := orchestrator.Fresh()
	l.startSession(state)

	if l.opts.Banner != "" {
		fmt.Fprintln(l.opts.Out, color.BannerStyle.Render(l.opts.Banner))
	}

	for {
		if err := ctx.Err(); err != nil {
			l.endSession(state, "interrupted")
			return state, nil
		}

		line, err := l.reader.Readline()
		if errors.Is(err, ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			l.endSession(state, "eof")
			logging.Info("CLI", "Goodbye!")
			return state, nil
		}
		if err != nil {
			l.endSession(state, "error")
			return state, fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "quit") {
			l.endSession(state, "quit")
			logging.Info("CLI", "Goodbye!")
			return state, nil
		}

		state = l.turn(ctx, state, input)
	}
}

// turn runs one step and prints its outcome. The returned state is the
// input state when the step fails.
func (l *Loop) turn(ctx context.Context, state orchestrator.State, input string) orchestrator.State {
	before := len(state.Transcript)

	next, err := l.stepper.Step(ctx, state.WithPending(input), "")
	if err != nil {
		logging.Error("CLI", err, "turn failed")
		fmt.Fprintln(l.opts.Out, color.ErrorStyle.Render("Error: "+err.Error()))
		return state
	}

	l.record(next, before)

	if reply, ok := next.LastReply(); ok {
		if err := printReply(l.opts.Out, reply); err != nil {
			logging.Warn("CLI", "failed to print reply: %v", err)
		}
	}

	if orchestrator.ShouldReset(next) {
		l.endSession(next, "final answer")
		fmt.Fprintln(l.opts.Out, color.NoticeStyle.Render("Final answer reached, starting a new session."))
		next = orchestrator.Fresh()
		l.startSession(next)
	}
	return next
}

func printReply(w io.Writer, reply orchestrator.Turn) error {
	b, err := json.MarshalIndent(reply.Content, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func (l *Loop) startSession(state orchestrator.State) {
	if l.opts.Recorder == nil {
		return
	}
	if err := l.opts.Recorder.StartSession(state.ID, l.opts.Mode); err != nil {
		logging.Warn("History", "failed to record session %s: %v", state.ID, err)
	}
}

func (l *Loop) endSession(state orchestrator.State, reason string) {
	if l.opts.Recorder == nil {
		return
	}
	if err := l.opts.Recorder.EndSession(state.ID, reason); err != nil {
		logging.Warn("History", "failed to close session %s: %v", state.ID, err)
	}
}

func (l *Loop) record(state orchestrator.State, from int) {
	if l.opts.Recorder == nil || from >= len(state.Transcript) {
		return
	}

	turns := make([]history.Turn, 0, len(state.Transcript)-from)
	for _, t := range state.Transcript[from:] {
		content := t.Text()
		if t.Role == orchestrator.RoleAssistant {
			if b, err := json.Marshal(t.Content); err == nil {
				content = string(b)
			}
		}
		turns = append(turns, history.Turn{Role: string(t.Role), Phase: string(t.Phase), Content: content})
	}

	if err := l.opts.Recorder.AppendTurns(state.ID, from, turns); err != nil {
		logging.Warn("History", "failed to record turns for %s: %v", state.ID, err)
	}
}

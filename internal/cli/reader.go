package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
)

// LineReader yields one input line per call and io.EOF at the end of input.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// NewTerminalReader creates a readline-backed reader with persistent history.
func NewTerminalReader(prompt, historyFile string) (LineReader, error) {
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".normbot_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	return &terminalReader{rl: rl}, nil
}

type terminalReader struct {
	rl *readline.Instance
}

func (t *terminalReader) Readline() (string, error) {
	line, err := t.rl.Readline()
	if err == readline.ErrInterrupt {
		return line, ErrInterrupt
	}
	return line, err
}

func (t *terminalReader) Close() error { return t.rl.Close() }

// NewStreamReader reads lines from r, writing prompt to w before each read.
// It serves piped input and tests.
func NewStreamReader(r io.Reader, w io.Writer, prompt string) LineReader {
	return &streamReader{scanner: bufio.NewScanner(r), out: w, prompt: prompt}
}

type streamReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

func (s *streamReader) Readline() (string, error) {
	if s.out != nil && s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *streamReader) Close() error { return nil }

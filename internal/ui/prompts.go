package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

// ErrAborted is returned when the operator presses Ctrl-C at a prompt or the
// context of a pending prompt is cancelled.
var ErrAborted = errors.New("prompt aborted")

// Prompter reads one line of operator input per question.
type Prompter struct {
	line *liner.State

	in    *bufio.Reader
	once  sync.Once
	lines chan readResult
}

type readResult struct {
	text string
	err  error
}

// NewPrompter returns a Prompter reading from r. The question is written to
// Out before each read.
func NewPrompter(r io.Reader) *Prompter {
	return &Prompter{in: bufio.NewReader(r)}
}

// NewTerminalPrompter returns a line-editing Prompter when stdin is a
// terminal liner can drive, and a buffered stdin Prompter otherwise.
func NewTerminalPrompter() *Prompter {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return NewPrompter(os.Stdin)
	}
	if !liner.TerminalSupported() {
		return NewPrompter(os.Stdin)
	}

	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	return &Prompter{line: st}
}

// Ask shows prompt and returns the operator's answer with surrounding
// whitespace removed. End of input is an error; a final line without a
// newline is still returned. Cancelling ctx abandons the read with
// ErrAborted.
func (p *Prompter) Ask(ctx context.Context, prompt string) (string, error) {
	if p.line != nil {
		answer, err := p.line.Prompt("  " + prompt + " ")
		return p.linerAnswer(answer, err)
	}

	_, _ = fmt.Fprintf(Out, "  %s ", prompt)
	return p.readLine(ctx)
}

// AskSecret is Ask without echo on a terminal. Piped input is read as a
// plain line.
func (p *Prompter) AskSecret(ctx context.Context, prompt string) (string, error) {
	if p.line == nil {
		return p.Ask(ctx, prompt)
	}

	answer, err := p.line.PasswordPrompt("  " + prompt + " ")
	return p.linerAnswer(answer, err)
}

func (p *Prompter) linerAnswer(answer string, err error) (string, error) {
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrAborted
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// readLine waits for the next line from the reader goroutine or for ctx.
// A line that arrives after an abandoned read is kept for the next call.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	p.once.Do(func() {
		p.lines = make(chan readResult)
		go p.readLoop()
	})

	select {
	case <-ctx.Done():
		return "", ErrAborted
	case r, ok := <-p.lines:
		if !ok {
			return "", fmt.Errorf("read input: %w", io.EOF)
		}
		if r.err != nil {
			if errors.Is(r.err, io.EOF) && r.text != "" {
				return strings.TrimSpace(r.text), nil
			}
			return "", fmt.Errorf("read input: %w", r.err)
		}
		return strings.TrimSpace(r.text), nil
	}
}

func (p *Prompter) readLoop() {
	defer close(p.lines)
	for {
		text, err := p.in.ReadString('\n')
		p.lines <- readResult{text: text, err: err}
		if err != nil {
			return
		}
	}
}

// Close restores the terminal when line editing was in use.
func (p *Prompter) Close() error {
	if p.line == nil {
		return nil
	}
	return p.line.Close()
}

// Choice returns the lowercased first non-space character of answer, or 0
// for an empty answer. Prompts take single-letter choices like (r)otate.
func Choice(answer string) byte {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return 0
	}
	return answer[0]
}

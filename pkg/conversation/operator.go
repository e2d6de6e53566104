package conversation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Prompter asks the operator for one line of input.
type Prompter interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

type lineResult struct {
	line string
	err  error
}

// Terminal is a line-oriented Prompter over a reader such as stdin.
// A single background reader feeds all prompts, so a cancelled prompt
// never loses the next line.
type Terminal struct {
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan lineResult
}

// NewTerminal creates a Terminal reading from in and prompting on out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan lineResult),
	}
}

func (t *Terminal) start() {
	go func() {
		for {
			line, err := t.in.ReadString('\n')
			if err != nil && line == "" {
				t.lines <- lineResult{err: err}
				close(t.lines)
				return
			}
			t.lines <- lineResult{line: strings.TrimRight(line, "\r\n")}
		}
	}()
}

// ReadLine prints prompt and waits for a line or for ctx to be done.
// It returns io.EOF once the input is exhausted.
func (t *Terminal) ReadLine(ctx context.Context, prompt string) (string, error) {
	t.once.Do(t.start)

	fmt.Fprint(t.out, prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

// Action is what the operator asked for between rounds.
type Action int

const (
	ActionAdvance Action = iota
	ActionQuit
	ActionOverride
)

// Intervention is a parsed operator line.
type Intervention struct {
	Action Action
	Text   string
}

// ParseIntervention maps an operator line to an action: empty advances,
// "quit" in any case terminates, anything else is an override message.
func ParseIntervention(line string) Intervention {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return Intervention{Action: ActionAdvance}
	case strings.EqualFold(trimmed, "quit"):
		return Intervention{Action: ActionQuit}
	default:
		return Intervention{Action: ActionOverride, Text: line}
	}
}

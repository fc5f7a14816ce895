// Package terminal implements the interactive prompts used in place of dialogs.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when an answer is required but stdin is not a terminal.
var ErrNotInteractive = errors.New("input required but stdin is not a terminal")

// IsTerminal reports whether stdin is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Prompter asks questions on out and reads answers from in. When it is not
// interactive every prompt returns its default without reading.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// New creates a prompter over the given streams.
func New(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Stdio creates a prompter over the process's standard streams.
func Stdio() *Prompter {
	return New(os.Stdin, os.Stdout, IsTerminal())
}

// Interactive reports whether prompts read input.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Choice displays a numbered menu and returns the selected index (0-based).
// The prompt includes a default option that is selected if the user presses Enter.
func (p *Prompter) Choice(question string, options []string, defaultIndex int) (int, error) {
	if !p.interactive {
		return defaultIndex, nil
	}

	fmt.Fprintln(p.out, question)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, opt)
	}

	for {
		fmt.Fprintf(p.out, "Selection [%d]: ", defaultIndex+1)
		input, err := p.readLine()
		if err != nil {
			return 0, err
		}

		// Default selection
		if input == "" {
			return defaultIndex, nil
		}

		// Parse selection
		num, err := strconv.Atoi(input)
		if err != nil || num < 1 || num > len(options) {
			fmt.Fprintf(p.out, "Please enter a number between 1 and %d\n", len(options))
			continue
		}

		return num - 1, nil
	}
}

// String prompts for a line of text. An empty answer selects defaultVal;
// when there is no default the question is asked again.
func (p *Prompter) String(question, defaultVal string) (string, error) {
	if !p.interactive {
		if defaultVal == "" {
			return "", ErrNotInteractive
		}
		return defaultVal, nil
	}

	for {
		if defaultVal != "" {
			fmt.Fprintf(p.out, "%s [%s]: ", question, defaultVal)
		} else {
			fmt.Fprintf(p.out, "%s: ", question)
		}
		input, err := p.readLine()
		if err != nil {
			return "", err
		}

		if input != "" {
			return input, nil
		}
		if defaultVal != "" {
			return defaultVal, nil
		}
		fmt.Fprintln(p.out, "A value is required")
	}
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	if !p.interactive {
		return defaultYes, nil
	}

	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(p.out, "%s [%s]: ", question, hint)
		input, err := p.readLine()
		if err != nil {
			return false, err
		}

		switch strings.ToLower(input) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n")
	}
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", errors.Wrap(err, "failed to read input")
	}
	return strings.TrimSpace(input), nil
}

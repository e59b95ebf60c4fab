package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Interactive prompts.
const (
	roomsPrompt    = "Enter the number of rooms exist: "
	maxStepsPrompt = "Enter max. number of timestamps: "
	invalidNumber  = "ERROR: NOT A POSITIVE INTEGER NUMBER!"
)

// ErrNoInput is returned when stdin closes before a prompt is answered.
var ErrNoInput = errors.New("no input")

// prompter asks for numbers on an interactive stream.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// askNumber repeats prompt until the answer is a run of digits whose value
// is at least minimum. It returns the value and the answer as typed.
func (p *prompter) askNumber(prompt string, minimum int) (int, string, error) {
	for {
		fmt.Fprint(p.out, prompt)

		line, err := p.in.ReadString('\n')
		answer := strings.TrimRight(line, "\r\n")

		if isDigits(answer) {
			if n, convErr := strconv.Atoi(answer); convErr == nil && n >= minimum {
				return n, answer, nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, "", fmt.Errorf("%w: %s", ErrNoInput, strings.TrimSuffix(prompt, ": "))
			}
			return 0, "", fmt.Errorf("read answer: %w", err)
		}

		fmt.Fprint(p.out, invalidNumber+"\n\n")
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

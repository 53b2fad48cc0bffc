// Package prompt asks the user for confirmation or short text on the
// terminal, standing in for the web client's modal dialogs.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks a yes/no question. Accepts s/sim/y/yes, anything else is no.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [s/N]: ", question)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true, nil
	}
	return false, nil
}

// InputOptions tunes ConfirmWithInput. Zero values mean required with a
// minimum of 3 characters.
type InputOptions struct {
	Required  *bool
	MinLength *int
}

const defaultMinLength = 3

// ConfirmWithInput asks for a line of text. The answer is trimmed; a nil
// return means the answer did not meet the requirements (too short, or
// empty while required) and the caller should treat it as a cancel.
func (p *Prompter) ConfirmWithInput(question string, opts InputOptions) (*string, error) {
	required := true
	if opts.Required != nil {
		required = *opts.Required
	}
	minLength := defaultMinLength
	if opts.MinLength != nil {
		minLength = *opts.MinLength
	}

	fmt.Fprintf(p.out, "%s: ", question)
	line, err := p.readLine()
	if err != nil {
		return nil, err
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		if required {
			return nil, nil
		}
		return &answer, nil
	}
	if len([]rune(answer)) < minLength {
		return nil, nil
	}
	return &answer, nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return line, nil
}

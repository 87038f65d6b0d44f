package experiment

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/YuminosukeSato/edakit/pkg/errors"
)

var (
	yesOut  = color.New(color.FgGreen)
	noOut   = color.New(color.FgRed)
	noteOut = color.New(color.FgCyan)
	askOut  = color.New(color.Bold)
)

// lineReader reuses in when it is already buffered so that successive
// prompts reading the same input do not lose buffered lines.
func lineReader(in io.Reader) *bufio.Reader {
	if br, ok := in.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(in)
}

// AskConfirm asks question on out until in gives a yes or no answer, then
// logs "<step> | Response: Yes|No". Pass the same *bufio.Reader to
// consecutive prompts that share an input.
func (e *Experiment) AskConfirm(question, step string, in io.Reader, out io.Writer) (bool, error) {
	r := lineReader(in)
	for {
		askOut.Fprintf(out, "%s [y/n]: ", question)
		line, err := r.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			if err := e.Log(step + " | Response: Yes"); err != nil {
				return false, err
			}
			yesOut.Fprintln(out, "✔️ Response recorded: Yes")
			return true, nil
		case "n", "no":
			if err := e.Log(step + " | Response: No"); err != nil {
				return false, err
			}
			noOut.Fprintln(out, "❌ Response recorded: No")
			return false, nil
		}
		if err != nil {
			if err == io.EOF {
				return false, errors.Wrapf(err, "no response for %q", step)
			}
			return false, errors.WithStack(err)
		}
		fmt.Fprintln(out, "Please answer y or n.")
	}
}

// RecordNote reads a note from in until an empty line or EOF and logs it as
// "Note: <text>". Lines are joined with spaces.
func (e *Experiment) RecordNote(prompt string, in io.Reader, out io.Writer) (string, error) {
	if prompt == "" {
		prompt = "Enter any notes you'd like to record:"
	}
	askOut.Fprintln(out, prompt)

	var lines []string
	r := lineReader(in)
	for {
		raw, err := r.ReadString('\n')
		line := strings.TrimSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF || (line == "" && err == nil) {
			break
		}
		if err != nil {
			return "", errors.WithStack(err)
		}
	}

	note := strings.Join(lines, " ")
	if err := e.Log("Note: " + note); err != nil {
		return "", err
	}
	noteOut.Fprintln(out, "📝 Note recorded.")
	return note, nil
}

package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mickeykkim/pybake/internal/manifest"
)

// maxAttempts bounds re-prompting on invalid input so a closed or
// garbage stdin cannot loop forever.
const maxAttempts = 3

// Collector reads variable answers from an input stream, writing prompts
// to an output stream. Both ends are plain io interfaces so tests can
// drive a full session from a strings.Reader.
type Collector struct {
	reader *bufio.Reader
	w      io.Writer
}

// New returns a Collector reading from r and prompting on w.
func New(r io.Reader, w io.Writer) *Collector {
	return &Collector{
		reader: bufio.NewReader(r),
		w:      w,
	}
}

// Collect prompts for every variable in order and returns the raw answers.
// defaults maps variable names to pre-resolved default values (user config,
// derived values, manifest defaults); an empty input line accepts the default.
// Booleans normalize to "true"/"false", ints to their decimal form.
func (c *Collector) Collect(vars []manifest.Variable, defaults map[string]string) (map[string]string, error) {
	answers := make(map[string]string, len(vars))
	for _, v := range vars {
		def := defaults[v.Name]
		if def == "" {
			def = v.Default
		}

		var (
			answer string
			err    error
		)
		switch v.Kind {
		case manifest.KindBool:
			answer, err = c.askBool(v, def)
		case manifest.KindInt:
			answer, err = c.askInt(v, def)
		case manifest.KindChoice:
			answer, err = c.askChoice(v, def)
		default:
			// string and date prompt identically; date syntax is
			// checked later during context validation.
			answer, err = c.askString(v, def)
		}
		if err != nil {
			return nil, fmt.Errorf("prompting for %s: %w", v.Name, err)
		}
		answers[v.Name] = answer
	}
	return answers, nil
}

// askString prompts for free text, accepting the default on empty input.
func (c *Collector) askString(v manifest.Variable, def string) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		c.printPrompt(v, def)
		line, err := c.readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			line = def
		}
		if line == "" && v.Required {
			fmt.Fprintf(c.w, "A value is required.\n")
			continue
		}
		return line, nil
	}
	return "", fmt.Errorf("no valid input after %d attempts", maxAttempts)
}

// askBool prompts y/n, accepting the default on empty input.
func (c *Collector) askBool(v manifest.Variable, def string) (string, error) {
	hint := "y/N"
	if isTruthy(def) {
		hint = "Y/n"
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		fmt.Fprintf(c.w, "%s [%s]: ", displayName(v), hint)
		line, err := c.readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			return strconv.FormatBool(isTruthy(def)), nil
		}
		switch strings.ToLower(line) {
		case "y", "yes", "true":
			return "true", nil
		case "n", "no", "false":
			return "false", nil
		}
		fmt.Fprintf(c.w, "Please answer y or n.\n")
	}
	return "", fmt.Errorf("no valid input after %d attempts", maxAttempts)
}

// askInt prompts for an integer, re-prompting on unparseable input.
func (c *Collector) askInt(v manifest.Variable, def string) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		c.printPrompt(v, def)
		line, err := c.readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			line = def
		}
		if line == "" {
			if v.Required {
				fmt.Fprintf(c.w, "A value is required.\n")
				continue
			}
			// No answer and no default; computed values fill in
			// during context construction.
			return "", nil
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintf(c.w, "Please enter a whole number.\n")
			continue
		}
		return strconv.Itoa(n), nil
	}
	return "", fmt.Errorf("no valid input after %d attempts", maxAttempts)
}

// askChoice presents a numbered list and returns the selected value.
// Empty input accepts the default choice.
func (c *Collector) askChoice(v manifest.Variable, def string) (string, error) {
	defIdx := 1
	for i, choice := range v.Choices {
		if choice == def {
			defIdx = i + 1
		}
	}

	fmt.Fprintf(c.w, "\n%s:\n", displayName(v))
	for i, choice := range v.Choices {
		fmt.Fprintf(c.w, "  %d) %s\n", i+1, choice)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		fmt.Fprintf(c.w, "Enter number [%d]: ", defIdx)
		line, err := c.readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			return v.Choices[defIdx-1], nil
		}
		num, convErr := strconv.Atoi(line)
		if convErr != nil || num < 1 || num > len(v.Choices) {
			fmt.Fprintf(c.w, "Invalid selection %q: choose 1-%d.\n", line, len(v.Choices))
			continue
		}
		return v.Choices[num-1], nil
	}
	return "", fmt.Errorf("no valid input after %d attempts", maxAttempts)
}

// printPrompt writes "name [default]: " or "name: " when no default exists.
func (c *Collector) printPrompt(v manifest.Variable, def string) {
	if def != "" {
		fmt.Fprintf(c.w, "%s [%s]: ", displayName(v), def)
		return
	}
	fmt.Fprintf(c.w, "%s: ", displayName(v))
}

func (c *Collector) readLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// displayName prefers the human description over the raw variable name.
func displayName(v manifest.Variable) string {
	if v.Description != "" {
		return v.Description
	}
	return v.Name
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "true", "y", "yes", "1":
		return true
	}
	return false
}

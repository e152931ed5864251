package pklaunch

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Output holds the launcher's stdout and stderr writers.
type Output struct {
	Stdout io.Writer
	Stderr io.Writer

	// Color enables ANSI colors in the status report.
	Color bool
}

// StdOutput returns an Output that writes to os.Stdout and os.Stderr.
// Colors are enabled when stdout is a terminal and NO_COLOR is unset.
func StdOutput() *Output {
	_, noColor := os.LookupEnv("NO_COLOR")
	return &Output{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Color:  computeColor(isTerminal(os.Stdout), noColor),
	}
}

// computeColor decides whether to colorize output.
// isTTY: whether stdout is a terminal
// noColorSet: whether NO_COLOR env var is set.
func computeColor(isTTY, noColorSet bool) bool {
	// Respect NO_COLOR convention (https://no-color.org/).
	if noColorSet {
		return false
	}
	return isTTY
}

// isTerminal returns true if the given file is a terminal.
// In windowed builds os.Stdout may be nil or an invalid handle.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Printf formats and prints to stdout.
func (o *Output) Printf(format string, a ...any) (int, error) {
	return fmt.Fprintf(o.Stdout, format, a...)
}

// Errorf formats and prints to stderr, prefixed with "error: ".
func (o *Output) Errorf(format string, a ...any) (int, error) {
	prefix := o.paint(color.FgRed, "error:")
	return fmt.Fprintf(o.Stderr, "%s %s\n", prefix, fmt.Sprintf(format, a...))
}

// paint wraps s in the given color when colors are enabled.
func (o *Output) paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	if o.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// paintStatus renders s, green on success and red otherwise.
func (o *Output) paintStatus(s Status) string {
	if s.Success() {
		return o.paint(color.FgGreen, s.String())
	}
	return o.paint(color.FgRed, s.String())
}

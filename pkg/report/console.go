package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

const consoleLineWidth = 60

// ConsoleWriter renders a finding list to the exact two-shape contract:
// an empty list prints "No vulnerabilities found.", a non-empty list
// prints a header line, a blank line, then one "- <text>" line per
// finding. Colors and the verbose banner are ambient dressing layered
// around that contract; neither changes what gets printed on which
// line.
type ConsoleWriter struct {
	writer  io.Writer
	noColor bool
	verbose bool
}

// NewConsoleWriter creates a console writer targeting stdout.
func NewConsoleWriter() *ConsoleWriter {
	return &ConsoleWriter{writer: os.Stdout}
}

// WithWriter sets a custom writer.
func (c *ConsoleWriter) WithWriter(w io.Writer) *ConsoleWriter {
	c.writer = w
	return c
}

// WithNoColor disables colored output.
func (c *ConsoleWriter) WithNoColor(v bool) *ConsoleWriter {
	c.noColor = v
	if v {
		color.NoColor = true
	}
	return c
}

// WithVerbose enables the `--output console-verbose` banner: a
// one-line "no issues"/"N issues found" summary ahead of the plain
// report. The two plain-text shapes themselves never change.
func (c *ConsoleWriter) WithVerbose(v bool) *ConsoleWriter {
	c.verbose = v
	return c
}

// Write renders findings to the underlying writer.
func (c *ConsoleWriter) Write(findings List) error {
	if c.verbose {
		c.printBanner(findings)
	}

	if len(findings) == 0 {
		fmt.Fprintln(c.writer, "No vulnerabilities found.")
		return nil
	}

	fmt.Fprintln(c.writer, "Potential vulnerabilities detected:")
	fmt.Fprintln(c.writer)
	for _, f := range findings {
		c.printFinding(f)
	}
	return nil
}

func (c *ConsoleWriter) printBanner(findings List) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(c.writer, strings.Repeat("=", consoleLineWidth))
	if len(findings) == 0 {
		green := color.New(color.FgGreen, color.Bold)
		green.Fprintln(c.writer, "no issues found")
	} else {
		red := color.New(color.FgRed, color.Bold)
		red.Fprintf(c.writer, "%d issues found\n", len(findings))
	}
	cyan.Fprintln(c.writer, strings.Repeat("=", consoleLineWidth))
}

func (c *ConsoleWriter) printFinding(f Finding) {
	gray := color.New(color.FgHiBlack)
	gray.Fprint(c.writer, "- ")
	fmt.Fprintln(c.writer, f.Text)
}

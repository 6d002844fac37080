// Package diag is the `--debug` diagnostic logger: timing and stage
// information written to stderr, never to stdout, so the report text
// stays byte-exact regardless of whether diagnostics are enabled.
package diag

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

// Logger writes timestamped debug lines when enabled, and is a silent
// no-op otherwise.
type Logger struct {
	enabled bool
	writer  io.Writer
}

// New builds a Logger. Pass enabled=false to get a no-op logger without
// branching at every call site.
func New(enabled bool) *Logger {
	return &Logger{enabled: enabled, writer: os.Stderr}
}

// Debugf writes a single diagnostic line if the logger is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.enabled {
		return
	}
	prefix := color.New(color.FgHiBlack).Sprintf("[%s]", time.Now().Format("15:04:05.000"))
	fmt.Fprintf(l.writer, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Stage logs entry into a named pipeline stage and returns a function
// that logs its duration; call it with `defer`.
func (l *Logger) Stage(name string) func() {
	if l == nil || !l.enabled {
		return func() {}
	}
	start := time.Now()
	l.Debugf("%s: start", name)
	return func() {
		l.Debugf("%s: done in %s", name, time.Since(start))
	}
}

// Package logging writes the short `component: message` diagnostics that the
// rest of worklog reports on stderr when something recoverable goes wrong.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Logger receives diagnostics. Implementations must be safe for concurrent use.
type Logger interface {
	Printf(format string, args ...interface{})
}

// Stderr is the default logger.
var Stderr Logger = New(color.Error)

type writerLogger struct {
	mu  sync.Mutex
	out io.Writer
	c   *color.Color
}

// New returns a Logger printing one yellow line per message to out.
func New(out io.Writer) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &writerLogger{out: out, c: color.New(color.FgYellow)}
}

func (l *writerLogger) Printf(format string, args ...interface{}) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.c.Fprintln(l.out, msg)
}

// Discard drops every message.
var Discard Logger = discard{}

type discard struct{}

func (discard) Printf(string, ...interface{}) {}

// Recorder keeps messages in memory. Tests use it to assert on diagnostics.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *Recorder) Printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the recorded messages.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Contains reports whether any recorded line contains substr.
func (r *Recorder) Contains(substr string) bool {
	for _, l := range r.Lines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// OrDefault returns l, or Stderr when l is nil.
func OrDefault(l Logger) Logger {
	if l == nil {
		return Stderr
	}
	return l
}

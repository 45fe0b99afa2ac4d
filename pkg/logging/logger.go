// Package logging wraps logrus with the nested, grouped output used while a
// collection is built and synced.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const indentUnit = "  "

// Logger is a leveled logger that prefixes messages with the current nesting.
// It is not safe for concurrent use; a sync run logs from one goroutine.
type Logger struct {
	base   *logrus.Logger
	depth  int
	groups []string
}

// New creates a logger writing text output to out at the given level.
func New(out io.Writer, level logrus.Level) *Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(level)
	base.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
	return &Logger{base: base}
}

// Wrap builds a Logger around an existing logrus logger, e.g. one carrying a
// test hook.
func Wrap(base *logrus.Logger) *Logger {
	return &Logger{base: base}
}

// Default logs warnings and above to stderr.
func Default() *Logger {
	return New(os.Stderr, logrus.WarnLevel)
}

// Discard drops everything; useful for callers that do not care about output.
func Discard() *Logger {
	return New(io.Discard, logrus.PanicLevel)
}

// Logrus exposes the underlying logger.
func (l *Logger) Logrus() *logrus.Logger { return l.base }

// Indent nests subsequent messages one level deeper.
func (l *Logger) Indent() { l.depth++ }

// Unindent undoes one Indent.
func (l *Logger) Unindent() {
	if l.depth > 0 {
		l.depth--
	}
}

// StartGroup logs a group header and nests everything until EndGroup.
func (l *Logger) StartGroup(name string) {
	l.base.Info(l.prefix() + "▸ " + name)
	l.groups = append(l.groups, name)
	l.Indent()
}

// EndGroup closes the innermost group.
func (l *Logger) EndGroup() {
	if len(l.groups) == 0 {
		return
	}
	l.groups = l.groups[:len(l.groups)-1]
	l.Unindent()
}

func (l *Logger) prefix() string {
	return strings.Repeat(indentUnit, l.depth)
}

func (l *Logger) Tracef(format string, args ...any) {
	l.base.Tracef(l.prefix()+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.base.Debugf(l.prefix()+format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.base.Infof(l.prefix()+format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.base.Warnf(l.prefix()+format, args...)
}

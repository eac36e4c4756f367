// Package eventlog persists the program's append-only event trail. The line
// format is contractual: one event per line, never rewritten.
package eventlog

import (
	"fmt"
	"os"
	"time"

	"github.com/harunnryd/catat/pkg/redact"
)

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelDebug Level = "DEBUG"
	LevelError Level = "ERROR"
)

// Writer appends events to a flat file. Each Append opens, writes one line
// and closes, so every already-written event survives a crash. No handle is
// held between writes.
type Writer struct {
	path string
	now  func() time.Time
}

func New(path string) *Writer {
	return &Writer{path: path, now: time.Now}
}

func (w *Writer) Path() string { return w.path }

// Append writes one `[YYYY-MM-DD HH:MM:SS] [LEVEL] message` line.
func (w *Writer) Append(level Level, message string) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	line := fmt.Sprintf("[%s] [%s] %s\n", w.now().Format("2006-01-02 15:04:05"), level, redact.Text(message))
	_, werr := f.WriteString(line)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return werr
}

// Appendf is Append with formatting.
func (w *Writer) Appendf(level Level, format string, args ...any) error {
	return w.Append(level, fmt.Sprintf(format, args...))
}

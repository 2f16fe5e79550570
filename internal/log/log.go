// ABOUTME: Leveled diagnostic logging for the event workers and the demo CLI
// ABOUTME: Global level and sink; defaults to stderr so nothing lands on the tty being read

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level atomic.Int64

	outMu sync.Mutex
	out   io.Writer = os.Stderr
	stamp bool
)

func init() {
	level.Store(int64(LevelInfo))
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Store(int64(l))
}

// ParseLevel maps "debug", "info", "warn" or "error" to a level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetOutput redirects all log lines to w. A nil w restores stderr.
// When timestamps is true each line is prefixed with an RFC3339 time,
// which is useful for log files but noise on a terminal.
func SetOutput(w io.Writer, timestamps bool) {
	outMu.Lock()
	defer outMu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	out = w
	stamp = timestamps
}

// Enabled reports whether messages at l would be written.
func Enabled(l slog.Level) bool {
	return l >= slog.Level(level.Load())
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) {
	emit(LevelDebug, "[DEBUG] ", format, args)
}

// Info logs an info message if the level allows it.
func Info(format string, args ...any) {
	emit(LevelInfo, "[INFO] ", format, args)
}

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) {
	emit(LevelWarn, "[WARN] ", format, args)
}

// Error logs an error message (always emitted).
func Error(format string, args ...any) {
	emit(LevelError, "[ERROR] ", format, args)
}

func emit(l slog.Level, prefix, format string, args []any) {
	if l < LevelError && !Enabled(l) {
		return
	}

	outMu.Lock()
	defer outMu.Unlock()

	if stamp {
		fmt.Fprint(out, time.Now().Format(time.RFC3339)+" ")
	}
	fmt.Fprintf(out, prefix+format+"\n", args...)
}

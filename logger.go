package lockscenarios

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// TimestampLayout renders hours, minutes, seconds and milliseconds.
const TimestampLayout = "15:04:05.000"

// Logger writes one line per event: timestamp, calling goroutine and message.
//
//	12:04:05.123 [Thread: 01] - Acquiring lock from main method...
//
// Writes from concurrent goroutines never interleave within a line.
type Logger struct {
	out   *log.Logger
	clock func() time.Time
}

// NewLogger returns a Logger writing to w, or to stdout when w is nil.
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{
		out:   log.New(w, "", 0),
		clock: time.Now,
	}
}

// WithClock replaces the time source and returns the logger for chaining
func (l *Logger) WithClock(clock func() time.Time) *Logger {
	if clock == nil {
		clock = time.Now
	}
	l.clock = clock
	return l
}

// Log writes message tagged with the caller's goroutine display ID.
func (l *Logger) Log(message string) {
	l.out.Print(FormatLine(l.clock(), GetGoroutineID(), message))
}

// Logf formats according to a format specifier and logs the result.
func (l *Logger) Logf(format string, args ...interface{}) {
	l.Log(fmt.Sprintf(format, args...))
}

// Writer returns the destination the logger writes to.
func (l *Logger) Writer() io.Writer {
	return l.out.Writer()
}

// FormatLine renders a single log line without the trailing newline.
func FormatLine(ts time.Time, goroutineID uint64, message string) string {
	return fmt.Sprintf("%s [Thread: %02d] - %s", ts.Format(TimestampLayout), goroutineID, message)
}

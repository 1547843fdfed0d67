package httpapi

import (
	"fmt"
	"io"
	"log"
	"time"
)

// accessLogger and serverLogger use the persisted-state log line format
// from spec.md §6: "[YYYY-MM-DD HH:MM:SS:mmm] [LEVEL] message", written
// with the stdlib log package the way the teacher's middleware package
// logs request lines, but with a custom prefix instead of log's own
// timestamp flags so the millisecond field matches the spec exactly.
type lineLogger struct {
	*log.Logger
}

func newLineLogger(w io.Writer) lineLogger {
	return lineLogger{log.New(w, "", 0)}
}

func (l lineLogger) logf(level, format string, args ...any) {
	now := time.Now()
	ts := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d:%03d",
		now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond()/1e6)
	l.Printf("[%s] [%s] %s", ts, level, fmt.Sprintf(format, args...))
}

func (l lineLogger) info(format string, args ...any)  { l.logf("INFO", format, args...) }
func (l lineLogger) warn(format string, args ...any)  { l.logf("WARN", format, args...) }
func (l lineLogger) errorf(format string, args ...any) { l.logf("ERROR", format, args...) }

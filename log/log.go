// Package log wraps apex/log with a compact stderr handler whose level comes
// from the CODEDIFF_LOG environment variable.
package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/apex/log"
)

// EnvLevel names the environment variable that selects the log level.
const EnvLevel = "CODEDIFF_LOG"

// Fields is an alias so callers need not import apex/log.
type Fields = log.Fields

var traceEnabled bool

// InitLogger installs a Handler writing to stderr at the level named by
// CODEDIFF_LOG (trace, debug, info, warn, error, fatal). Unset or unknown
// values mean error.
func InitLogger() {
	Init(os.Getenv(EnvLevel), os.Stderr)
}

// Init installs a Handler writing to w at the named level.
func Init(level string, w io.Writer) {
	level = strings.ToLower(level)
	traceEnabled = level == "trace"
	log.SetHandler(NewHandler(w))
	log.SetLevel(ParseLevel(level))
}

// ParseLevel maps a level name to an apex level, defaulting to error.
func ParseLevel(name string) log.Level {
	switch strings.ToLower(name) {
	case "trace", "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.ErrorLevel
	}
}

// Handler formats entries as "L message key=value ..." lines with fields in
// sorted order.
type Handler struct {
	mu sync.Mutex
	w  io.Writer
}

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer) *Handler {
	return &Handler{w: w}
}

// HandleLog implements the log.Handler interface.
func (h *Handler) HandleLog(e *log.Entry) error {
	message := e.Message
	level := "?"
	if rest, ok := strings.CutPrefix(message, "TRACE: "); ok {
		level = "T"
		message = rest
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
		case log.ErrorLevel:
			level = "E"
		case log.FatalLevel:
			level = "F"
		}
	}

	var b strings.Builder
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(message)
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields[name])
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// Tracef logs at trace level, which apex/log reports as debug.
func Tracef(format string, args ...any) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at debug level.
func Debugf(format string, args ...any) {
	log.Debugf(format, args...)
}

// Infof logs at info level.
func Infof(format string, args ...any) {
	log.Infof(format, args...)
}

// Warnf logs at warn level.
func Warnf(format string, args ...any) {
	log.Warnf(format, args...)
}

// Errorf logs at error level.
func Errorf(format string, args ...any) {
	log.Errorf(format, args...)
}

// WithFields returns an entry carrying fields.
func WithFields(fields Fields) *log.Entry {
	return log.WithFields(fields)
}

// WithError returns an entry carrying err.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}

package langsync

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger receives structured debug output from the client. Key/value pairs
// alternate in keysAndValues, as in most structured logging APIs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SimpleLogger writes leveled, flattened key/value output via the standard
// library logger. Meant for examples and tests, not production.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger creates a SimpleLogger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{
		logger: log.New(os.Stderr, "langsync ", log.LstdFlags|log.Lmicroseconds),
	}
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...any) { l.logf("DEBUG", msg, keysAndValues) }
func (l *SimpleLogger) Info(msg string, keysAndValues ...any)  { l.logf("INFO", msg, keysAndValues) }
func (l *SimpleLogger) Warn(msg string, keysAndValues ...any)  { l.logf("WARN", msg, keysAndValues) }
func (l *SimpleLogger) Error(msg string, keysAndValues ...any) { l.logf("ERROR", msg, keysAndValues) }

func (l *SimpleLogger) logf(level, msg string, keysAndValues []any) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	l.logger.Print(b.String())
}

// ZerologAdapter bridges the Logger interface onto a zerolog.Logger so the
// client's debug output lands in an application's existing log stream.
type ZerologAdapter struct {
	l zerolog.Logger
}

// NewZerologAdapter wraps l as a Logger.
func NewZerologAdapter(l zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{l: l}
}

func (a *ZerologAdapter) Debug(msg string, keysAndValues ...any) { emit(a.l.Debug(), msg, keysAndValues) }
func (a *ZerologAdapter) Info(msg string, keysAndValues ...any)  { emit(a.l.Info(), msg, keysAndValues) }
func (a *ZerologAdapter) Warn(msg string, keysAndValues ...any)  { emit(a.l.Warn(), msg, keysAndValues) }
func (a *ZerologAdapter) Error(msg string, keysAndValues ...any) { emit(a.l.Error(), msg, keysAndValues) }

func emit(ev *zerolog.Event, msg string, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	ev.Msg(msg)
}

// DebugConfig selects which client events are logged when debugging is
// enabled. All flags default to on; disable selectively for less noise.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogRetries   bool
	LogCache     bool
	LogDedup     bool
	LogRateLimit bool
	// RequestIDGen produces the correlation ID attached to every log line
	// of one logical request.
	RequestIDGen func() string
}

// DefaultDebugConfig returns a DebugConfig with all event classes enabled
// (but Enabled false) and UUID request IDs.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		LogRequests:  true,
		LogRetries:   true,
		LogCache:     true,
		LogDedup:     true,
		LogRateLimit: true,
		RequestIDGen: func() string { return uuid.NewString() },
	}
}

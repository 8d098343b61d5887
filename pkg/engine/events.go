package engine

import(
	"fmt"
	"log"
	"strings"
)

type Level int

const(
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level)String() string {
	switch l {
	case LevelDebug: return "debug"
	case LevelInfo:  return "info"
	case LevelWarn:  return "warn"
	case LevelError: return "error"
	default:         return fmt.Sprintf("level%d", int(l))
	}
}

// A Field is a key/value pair attached to an event.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, val string) Field    { return Field{key, val} }
func Int(key string, val int) Field    { return Field{key, val} }
func Float(key string, val float64) Field { return Field{key, val} }
func Err(err error) Field              { return Field{"error", err} }

// An EventSink receives everything the engine has to say. Events may
// arrive from several goroutines at once.
type EventSink interface {
	Event(level Level, msg string, fields ...Field)
}

type NopSink struct{}

func (NopSink)Event(Level, string, ...Field) {}

// LogSink writes events as single lines to a standard logger.
type LogSink struct {
	Logger   *log.Logger  // nil means log.Default()
	MinLevel Level
}

func NewLogSink(verbosity int) LogSink {
	if verbosity > 0 {
		return LogSink{MinLevel: LevelDebug}
	}
	return LogSink{MinLevel: LevelInfo}
}

func (s LogSink)Event(level Level, msg string, fields ...Field) {
	if level < s.MinLevel {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", level, msg)
	for _, f := range fields {
		fmt.Fprintf(&sb, " %s=%v", f.Key, f.Value)
	}

	l := s.Logger
	if l == nil {
		l = log.Default()
	}
	l.Print(sb.String())
}

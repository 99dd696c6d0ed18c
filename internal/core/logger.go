// Logger provides structured logging with level-based control.
//
// Control logging via environment variables:
//   - SHIFTBOARD_SILENT=1: suppress all output
//   - SHIFTBOARD_LOG_LEVEL=trace|debug|info|warn|error|fatal|silent
//   - SHIFTBOARD_LOG_FORMAT=text|json
//   - SHIFTBOARD_LOG_FILE=/path/to/logfile: write logs to file instead of stderr
package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Log levels in order of increasing severity.
const (
	LogLevelTrace = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
	LogLevelSilent = 999
)

const (
	LogLevelTraceString  = "trace"
	LogLevelDebugString  = "debug"
	LogLevelInfoString   = "info"
	LogLevelWarnString   = "warn"
	LogLevelErrorString  = "error"
	LogLevelFatalString  = "fatal"
	LogLevelSilentString = "silent"
)

const (
	envShiftboardSilent    = "SHIFTBOARD_SILENT"
	envShiftboardLogLevel  = "SHIFTBOARD_LOG_LEVEL"
	envShiftboardLogFormat = "SHIFTBOARD_LOG_FORMAT"
	envShiftboardLogFile   = "SHIFTBOARD_LOG_FILE"
)

// levelDef pairs a level's numeric value with its env/CLI name. It is the
// single source of truth for level parsing, string rendering, and the
// vocabulary ValidateConfig checks "log_level" against; earlier revisions
// kept that vocabulary as a second, hand-maintained list in validation.go,
// which could silently drift from this one.
type levelDef struct {
	value int
	name  string
}

var logLevels = []levelDef{
	{LogLevelTrace, LogLevelTraceString},
	{LogLevelDebug, LogLevelDebugString},
	{LogLevelInfo, LogLevelInfoString},
	{LogLevelWarn, LogLevelWarnString},
	{LogLevelError, LogLevelErrorString},
	{LogLevelFatal, LogLevelFatalString},
	{LogLevelSilent, LogLevelSilentString},
}

// KnownLogLevelNames returns the recognized SHIFTBOARD_LOG_LEVEL values, in
// ascending order of severity.
func KnownLogLevelNames() []string {
	names := make([]string, len(logLevels))
	for i, ld := range logLevels {
		names[i] = ld.name
	}
	return names
}

// LogFormat is the output format for logs.
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// logField is one key/value pair attached to a logger via WithField(s). It
// is kept as an ordered slice element rather than a map entry so that both
// text and JSON rendering reproduce fields in the order they were attached,
// instead of Go's randomized map iteration order.
type logField struct {
	Key   string
	Value interface{}
}

// LogEntry is a structured log entry.
type LogEntry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  []logField
	Caller  string
	Prefix  string
}

// MarshalJSON renders fields as an object in attachment order, rather than
// the alphabetical order encoding/json would give a map[string]interface{}.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(first *bool, key string, value interface{}) error {
		if !*first {
			buf.WriteByte(',')
		}
		*first = false
		kb, err := json.Marshal(key)
		if err != nil {
			return err
		}
		vb, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return nil
	}

	first := true
	if err := write(&first, "time", e.Time); err != nil {
		return nil, err
	}
	if err := write(&first, "level", e.Level); err != nil {
		return nil, err
	}
	if err := write(&first, "message", e.Message); err != nil {
		return nil, err
	}
	if len(e.Fields) > 0 {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(`"fields":{`)
		for i, f := range e.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(f.Key)
			if err != nil {
				return nil, err
			}
			vb, err := json.Marshal(f.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			buf.Write(vb)
		}
		buf.WriteByte('}')
	}
	if e.Caller != "" {
		if err := write(&first, "caller", e.Caller); err != nil {
			return nil, err
		}
	}
	if e.Prefix != "" {
		if err := write(&first, "prefix", e.Prefix); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Logger provides structured logging with context support. Identical
// consecutive log lines (same level, message, and fields) are collapsed: the
// watch command rebuilds on every config/holiday-file write event, and a
// single save can fire several fsnotify events for the same content, which
// would otherwise spam "rebuilt: ..." lines.
type Logger struct {
	mu          sync.RWMutex
	writer      io.Writer
	level       int
	format      LogFormat
	prefix      string
	fields      []logField
	lastKey     string
	repeatCount int
}

type contextKey struct{}

var globalLogger *Logger
var globalLoggerOnce sync.Once

// NewLogger creates a logger with the given prefix.
func NewLogger(prefix string) *Logger {
	return &Logger{
		writer: getLogWriter(),
		level:  parseLogLevel(getLogLevelString()),
		format: parseLogFormat(os.Getenv(envShiftboardLogFormat)),
		prefix: strings.TrimSpace(prefix),
	}
}

// NewDefaultLogger returns the process-wide default logger.
func NewDefaultLogger() *Logger {
	globalLoggerOnce.Do(func() {
		globalLogger = NewLogger("[shiftboard] ")
	})
	return globalLogger
}

func getLogWriter() io.Writer {
	if logFile := os.Getenv(envShiftboardLogFile); logFile != "" {
		if file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
			return file
		}
	}
	return os.Stderr
}

func getLogLevelString() string {
	if os.Getenv(envShiftboardSilent) == "1" {
		return LogLevelSilentString
	}
	level := strings.ToLower(os.Getenv(envShiftboardLogLevel))
	if level == "" {
		return LogLevelInfoString
	}
	return level
}

func parseLogLevel(level string) int {
	for _, ld := range logLevels {
		if ld.name == level {
			return ld.value
		}
	}
	return LogLevelInfo
}

func parseLogFormat(format string) LogFormat {
	switch strings.ToLower(format) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatText
	}
}

// IsSilent reports whether logging is suppressed.
func IsSilent() bool {
	return parseLogLevel(getLogLevelString()) == LogLevelSilent
}

// derive clones l and applies update to the clone's field slice.
func (l *Logger) derive(update func([]logField) []logField) *Logger {
	l.mu.RLock()
	base := make([]logField, len(l.fields))
	copy(base, l.fields)
	l.mu.RUnlock()

	return &Logger{
		writer: l.writer,
		level:  l.level,
		format: l.format,
		prefix: l.prefix,
		fields: update(base),
	}
}

// setField replaces the value for key in fields if present (preserving its
// original position), or appends a new entry otherwise.
func setField(fields []logField, key string, value interface{}) []logField {
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = value
			return fields
		}
	}
	return append(fields, logField{Key: key, Value: value})
}

// WithField returns a derived logger carrying an additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.derive(func(fields []logField) []logField {
		return setField(fields, key, value)
	})
}

// WithFields returns a derived logger carrying additional fields. Keys are
// applied in sorted order so the result doesn't depend on Go's randomized
// map iteration order.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}

	return l.derive(func(base []logField) []logField {
		for _, k := range keys {
			base = setField(base, k, fields[k])
		}
		return base
	})
}

// WithContext attaches the logger to ctx.
func (l *Logger) WithContext(ctx context.Context, key string, value interface{}) context.Context {
	return context.WithValue(ctx, contextKey{}, l.WithField(key, value))
}

// FromContext retrieves the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return NewDefaultLogger()
}

// dedupKeyLocked builds a key identifying this line for repeat collapsing.
// Caller must hold l.mu.
func (l *Logger) dedupKeyLocked(levelStr, message string) string {
	var b strings.Builder
	b.WriteString(levelStr)
	b.WriteByte('|')
	b.WriteString(l.prefix)
	b.WriteByte('|')
	b.WriteString(message)
	for _, f := range l.fields {
		b.WriteByte('|')
		b.WriteString(f.Key)
		b.WriteByte('=')
		fmt.Fprintf(&b, "%v", f.Value)
	}
	return b.String()
}

// flushRepeatLocked emits a summary line for any suppressed repeats of the
// previous entry. Caller must hold l.mu.
func (l *Logger) flushRepeatLocked() {
	if l.repeatCount == 0 {
		return
	}
	suffix := "s"
	if l.repeatCount == 1 {
		suffix = ""
	}
	fmt.Fprintf(l.writer, "%s [repeat] previous message repeated %d more time%s\n",
		time.Now().Format("2006/01/02 15:04:05"), l.repeatCount, suffix)
	l.repeatCount = 0
}

func (l *Logger) log(level int, levelStr, message string, args ...interface{}) {
	if level < l.level {
		return
	}
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}

	_, file, line, ok := runtime.Caller(2)
	caller := ""
	if ok {
		parts := strings.Split(file, "/")
		if len(parts) > 0 {
			file = parts[len(parts)-1]
		}
		caller = fmt.Sprintf("%s:%d", file, line)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if level != LogLevelFatal {
		key := l.dedupKeyLocked(levelStr, message)
		if key == l.lastKey {
			l.repeatCount++
			return
		}
		l.flushRepeatLocked()
		l.lastKey = key
	}

	entry := LogEntry{Time: time.Now(), Level: levelStr, Message: message, Fields: l.fields, Caller: caller, Prefix: l.prefix}

	var output string
	switch l.format {
	case LogFormatJSON:
		if jsonBytes, err := json.Marshal(entry); err == nil {
			output = string(jsonBytes)
		} else {
			output = fmt.Sprintf("{\"error\":\"failed to marshal log entry: %v\"}", err)
		}
	default:
		output = l.formatTextEntry(entry)
	}

	fmt.Fprintln(l.writer, output)
	if level == LogLevelFatal {
		os.Exit(1)
	}
}

func (l *Logger) formatTextEntry(entry LogEntry) string {
	var parts []string
	parts = append(parts, entry.Time.Format("2006/01/02 15:04:05"))
	parts = append(parts, fmt.Sprintf("[%s]", strings.ToUpper(entry.Level)))
	if entry.Prefix != "" {
		parts = append(parts, entry.Prefix)
	}
	parts = append(parts, entry.Message)
	if len(entry.Fields) > 0 {
		fieldParts := make([]string, len(entry.Fields))
		for i, f := range entry.Fields {
			fieldParts[i] = fmt.Sprintf("%s=%v", f.Key, f.Value)
		}
		parts = append(parts, fmt.Sprintf("{%s}", strings.Join(fieldParts, " ")))
	}
	if l.level <= LogLevelDebug && entry.Caller != "" {
		parts = append(parts, fmt.Sprintf("(%s)", entry.Caller))
	}
	return strings.Join(parts, " ")
}

func (l *Logger) Trace(message string, args ...interface{}) { l.log(LogLevelTrace, LogLevelTraceString, message, args...) }
func (l *Logger) Debug(message string, args ...interface{}) { l.log(LogLevelDebug, LogLevelDebugString, message, args...) }
func (l *Logger) Info(message string, args ...interface{})  { l.log(LogLevelInfo, LogLevelInfoString, message, args...) }
func (l *Logger) Warn(message string, args ...interface{})  { l.log(LogLevelWarn, LogLevelWarnString, message, args...) }
func (l *Logger) Error(message string, args ...interface{}) { l.log(LogLevelError, LogLevelErrorString, message, args...) }
func (l *Logger) Fatal(message string, args ...interface{}) { l.log(LogLevelFatal, LogLevelFatalString, message, args...) }

// Printf provides compatibility with the standard log.Logger interface.
func (l *Logger) Printf(format string, v ...interface{}) { l.Info(format, v...) }

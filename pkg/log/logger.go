// Structured logging for the exclude-region G-code filter.
//
// Provides leveled, prefixed loggers with optional structured fields
// and text or JSON output. Configuration can come from the environment
// so the filter behaves the same embedded or standalone.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	// DEBUG level for per-command dispatch tracing.
	DEBUG Level = iota

	// INFO level for general informational messages.
	INFO

	// WARN level for warning messages.
	WARN

	// ERROR level for error messages.
	ERROR
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level. Unknown strings map to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Format specifies the output format for log messages.
type Format int

const (
	// FormatText outputs human-readable text.
	FormatText Format = iota
	// FormatJSON outputs one JSON object per line.
	FormatJSON
)

// Fields is a map of structured logging fields.
type Fields map[string]interface{}

// Logger writes leveled log messages with a component prefix.
type Logger struct {
	mu         sync.Mutex
	prefix     string
	writer     io.Writer
	level      Level
	timeFormat string
	format     Format
}

// New creates a new logger with the given component prefix.
func New(prefix string) *Logger {
	return &Logger{
		prefix:     prefix,
		writer:     os.Stderr,
		level:      INFO,
		timeFormat: "2006-01-02 15:04:05.000",
		format:     FormatText,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetWriter sets the output writer (e.g., for testing).
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// SetFormat sets the output format.
func (l *Logger) SetFormat(format Format) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
}

// WithPrefix returns a new logger sharing this logger's settings but with
// a different component prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		prefix:     prefix,
		writer:     l.writer,
		level:      l.level,
		timeFormat: l.timeFormat,
		format:     l.format,
	}
}

// jsonEntry is the structure for JSON formatted log entries.
type jsonEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Logger    string                 `json:"logger"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func (l *Logger) formatText(level Level, msg string, fields Fields) string {
	var sb strings.Builder
	sb.WriteString(time.Now().Format(l.timeFormat))
	sb.WriteString(" [")
	sb.WriteString(fmt.Sprintf("%-5s", level.String()))
	sb.WriteString("] ")
	sb.WriteString(l.prefix)
	sb.WriteString(": ")
	sb.WriteString(msg)
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(fmt.Sprintf("%v", fields[k]))
		}
		sb.WriteString("}")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (l *Logger) formatJSON(level Level, msg string, fields Fields) string {
	entry := jsonEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Logger:    l.prefix,
		Message:   msg,
	}
	if len(fields) > 0 {
		entry.Fields = fields
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal log entry: %v"}`+"\n", err)
	}
	return string(data) + "\n"
}

func (l *Logger) log(level Level, msg string, args []interface{}, fields Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	var out string
	if l.format == FormatJSON {
		out = l.formatJSON(level, msg, fields)
	} else {
		out = l.formatText(level, msg, fields)
	}
	fmt.Fprint(l.writer, out)
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(DEBUG, msg, args, nil)
}

// Info logs a message at INFO level.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(INFO, msg, args, nil)
}

// Warn logs a message at WARN level.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(WARN, msg, args, nil)
}

// Error logs a message at ERROR level.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(ERROR, msg, args, nil)
}

// Entry carries structured fields toward a single log call.
type Entry struct {
	logger *Logger
	fields Fields
}

// WithField returns an Entry with the given field attached.
func (l *Logger) WithField(key string, value interface{}) *Entry {
	return &Entry{logger: l, fields: Fields{key: value}}
}

// WithFields returns an Entry with the given fields attached.
func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{logger: l, fields: fields}
}

// WithField adds a field to the entry.
func (e *Entry) WithField(key string, value interface{}) *Entry {
	fields := make(Fields, len(e.fields)+1)
	for k, v := range e.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Entry{logger: e.logger, fields: fields}
}

// Debug logs at DEBUG level with the entry's fields.
func (e *Entry) Debug(msg string, args ...interface{}) {
	e.logger.log(DEBUG, msg, args, e.fields)
}

// Info logs at INFO level with the entry's fields.
func (e *Entry) Info(msg string, args ...interface{}) {
	e.logger.log(INFO, msg, args, e.fields)
}

// Warn logs at WARN level with the entry's fields.
func (e *Entry) Warn(msg string, args ...interface{}) {
	e.logger.log(WARN, msg, args, e.fields)
}

// Error logs at ERROR level with the entry's fields.
func (e *Entry) Error(msg string, args ...interface{}) {
	e.logger.log(ERROR, msg, args, e.fields)
}

// ConfigureFromEnv applies environment-based configuration to the logger.
// Environment variables:
//   - EXCLUDEREGION_LOG_LEVEL: DEBUG, INFO, WARN, ERROR
//   - EXCLUDEREGION_LOG_FORMAT: text, json
func ConfigureFromEnv(l *Logger) {
	if levelStr := os.Getenv("EXCLUDEREGION_LOG_LEVEL"); levelStr != "" {
		l.SetLevel(ParseLevel(levelStr))
	}
	switch strings.ToLower(os.Getenv("EXCLUDEREGION_LOG_FORMAT")) {
	case "json":
		l.SetFormat(FormatJSON)
	case "text":
		l.SetFormat(FormatText)
	}
}

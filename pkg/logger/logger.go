// Package logger provides the leveled key/value logger used across makelab.
// Loggers are cheap to derive with WithField/WithFields; output and
// formatting are delegated to logrus.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
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

func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case DEBUG:
		return logrus.DebugLevel
	case WARN:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func fromLogrusLevel(level logrus.Level) LogLevel {
	switch {
	case level >= logrus.DebugLevel:
		return DEBUG
	case level == logrus.InfoLevel:
		return INFO
	case level == logrus.WarnLevel:
		return WARN
	default:
		return ERROR
	}
}

type Logger struct {
	base   *logrus.Logger
	fields map[string]interface{}
	mode   string // to track the mode
}

type Config struct {
	Level  LogLevel
	Output io.Writer
	Format string // "json" or "text" (default)
	Mode   string // "build", "validate", or empty
}

func New() *Logger {
	return NewWithConfig(Config{
		Level:  INFO,
		Output: os.Stderr,
		Format: "text",
	})
}

func NewWithConfig(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}

	base := logrus.New()
	base.SetOutput(config.Output)
	base.SetLevel(config.Level.logrusLevel())
	if strings.EqualFold(config.Format, "json") {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			DisableColors:    true,
			QuoteEmptyFields: true,
		})
	}

	return &Logger{
		base:   base,
		fields: make(map[string]interface{}),
		mode:   config.Mode,
	}
}

// SetMode sets the mode for the logger (e.g., "build", "validate")
func (l *Logger) SetMode(mode string) {
	l.mode = mode
}

// GetMode returns the mode this logger is running in
func (l *Logger) GetMode() string {
	return l.mode
}

func (l *Logger) WithFields(keyVals ...interface{}) *Logger {
	newLogger := l.clone(l.mode)

	for i := 0; i < len(keyVals); i += 2 {
		if i+1 < len(keyVals) {
			key := fmt.Sprintf("%v", keyVals[i])
			newLogger.fields[key] = keyVals[i+1]
		}
	}

	return newLogger
}

// WithField creates a new logger with one extra field, e.g. "component=compiler".
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(key, value)
}

// WithMode creates a new logger set to a specific mode, keeping existing fields.
func (l *Logger) WithMode(mode string) *Logger {
	return l.clone(mode)
}

func (l *Logger) clone(mode string) *Logger {
	newLogger := &Logger{
		base:   l.base,
		fields: make(map[string]interface{}, len(l.fields)),
		mode:   mode,
	}
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

func (l *Logger) Debug(msg string, keyVals ...interface{}) {
	l.log(DEBUG, msg, keyVals...)
}

func (l *Logger) Info(msg string, kv ...interface{}) {
	l.log(INFO, msg, kv...)
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	l.log(WARN, msg, kv...)
}

func (l *Logger) Error(msg string, kv ...interface{}) {
	l.log(ERROR, msg, kv...)
}

func (l *Logger) Fatal(msg string, kv ...interface{}) {
	l.log(ERROR, msg, kv...)
	os.Exit(1)
}

func (l *Logger) log(level LogLevel, msg string, kv ...interface{}) {
	if !l.base.IsLevelEnabled(level.logrusLevel()) {
		return
	}

	fields := make(logrus.Fields, len(l.fields)+len(kv)/2+1)
	for k, v := range l.fields {
		fields[k] = formatValue(v)
	}
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fields[fmt.Sprintf("%v", kv[i])] = formatValue(kv[i+1])
		}
	}
	if l.mode != "" {
		fields["mode"] = l.mode
	}

	l.base.WithFields(fields).Log(level.logrusLevel(), msg)
}

// formatValue renders values that logrus would otherwise print in a
// less readable way.
func formatValue(value interface{}) interface{} {
	switch v := value.(type) {
	case error:
		return v.Error()
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.base.SetLevel(level.logrusLevel())
}

func (l *Logger) GetLevel() LogLevel {
	return fromLogrusLevel(l.base.GetLevel())
}

func (l *Logger) IsDebugEnabled() bool {
	return l.base.IsLevelEnabled(logrus.DebugLevel)
}

func (l *Logger) IsInfoEnabled() bool {
	return l.base.IsLevelEnabled(logrus.InfoLevel)
}

// global logger instance for the convenience
var globalLogger = New()

// Configure replaces the global logger. Loggers derived before the call keep
// their previous output.
func Configure(config Config) {
	globalLogger = NewWithConfig(config)
}

// SetGlobalMode sets the mode for the global logger
func SetGlobalMode(mode string) {
	globalLogger.SetMode(mode)
}

func Debug(msg string, keyvals ...interface{}) {
	globalLogger.Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...interface{}) {
	globalLogger.Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	globalLogger.Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	globalLogger.Error(msg, keyvals...)
}

func WithFields(keyvals ...interface{}) *Logger {
	return globalLogger.WithFields(keyvals...)
}

func WithField(key string, value interface{}) *Logger {
	return globalLogger.WithField(key, value)
}

func WithMode(mode string) *Logger {
	return globalLogger.WithMode(mode)
}

func SetLevel(level LogLevel) {
	globalLogger.SetLevel(level)
}

func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level: %s", level)
	}
}

package http

import (
	"log"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

var levelOrder = map[entities.LogLevel]int{
	entities.LogLevelDebug: 0,
	entities.LogLevelInfo:  1,
	entities.LogLevelWarn:  2,
	entities.LogLevelError: 3,
}

// HTTPLogger is a leveled, component-tagged logger over the standard log package
type HTTPLogger struct {
	component string
	verbose   bool
	level     entities.LogLevel
}

// NewHTTPLogger creates a logger at info level
func NewHTTPLogger(component string, verbose bool) *HTTPLogger {
	return NewHTTPLoggerWithLevel(component, verbose, entities.LogLevelInfo)
}

// NewHTTPLoggerWithLevel creates a logger at the given level
func NewHTTPLoggerWithLevel(component string, verbose bool, level entities.LogLevel) *HTTPLogger {
	return &HTTPLogger{
		component: component,
		verbose:   verbose,
		level:     level,
	}
}

// NewHTTPLoggerFromConfig creates a logger from the [logging] section
func NewHTTPLoggerFromConfig(component string, cfg entities.LoggingConfig) *HTTPLogger {
	return NewHTTPLoggerWithLevel(component, cfg.Verbose, cfg.GetLevel())
}

func (l *HTTPLogger) shouldLog(msgLevel entities.LogLevel) bool {
	return levelOrder[msgLevel] >= levelOrder[l.level]
}

func (l *HTTPLogger) logf(tag string, msg string, args ...interface{}) {
	log.Printf("["+tag+"] [%s] "+msg, append([]interface{}{l.component}, args...)...)
}

// Debug logs at debug level. Verbose loggers print debug lines at any level.
func (l *HTTPLogger) Debug(msg string, args ...interface{}) {
	if l.verbose || l.shouldLog(entities.LogLevelDebug) {
		l.logf("DEBUG", msg, args...)
	}
}

// Info logs informational messages
func (l *HTTPLogger) Info(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		l.logf("INFO", msg, args...)
	}
}

// Warn logs warnings
func (l *HTTPLogger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelWarn) {
		l.logf("WARN", msg, args...)
	}
}

// Error logs errors
func (l *HTTPLogger) Error(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelError) {
		l.logf("ERROR", msg, args...)
	}
}

// Success logs completed operations at info level
func (l *HTTPLogger) Success(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		l.logf("SUCCESS", msg, args...)
	}
}

// SetLevel updates the logging level
func (l *HTTPLogger) SetLevel(level entities.LogLevel) {
	l.level = level
}

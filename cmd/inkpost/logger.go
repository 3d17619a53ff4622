package main

import (
	"log"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// Logger provides leveled logging for CLI commands
type Logger struct {
	verbose bool
	level   entities.LogLevel
}

var levelOrder = map[entities.LogLevel]int{
	entities.LogLevelDebug: 0,
	entities.LogLevelInfo:  1,
	entities.LogLevelWarn:  2,
	entities.LogLevelError: 3,
}

func newLoggerWithLevel(verbose bool, level entities.LogLevel) *Logger {
	return &Logger{verbose: verbose, level: level}
}

// newLoggerFromConfig builds the command logger from the [logging] section
func newLoggerFromConfig(cfg entities.LoggingConfig) *Logger {
	return newLoggerWithLevel(cfg.Verbose, cfg.GetLevel())
}

func (l *Logger) shouldLog(msgLevel entities.LogLevel) bool {
	return levelOrder[msgLevel] >= levelOrder[l.level]
}

// Debug logs only in verbose mode at debug level
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelDebug) && l.verbose {
		log.Printf("[DEBUG] "+msg, args...)
	}
}

// Info logs informational messages in verbose mode
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) && l.verbose {
		log.Printf("[INFO] "+msg, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelWarn) {
		log.Printf("[WARN] "+msg, args...)
	}
}

// Error logs error messages
func (l *Logger) Error(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelError) {
		log.Printf("[ERROR] "+msg, args...)
	}
}

// Success logs success messages
func (l *Logger) Success(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		log.Printf("[SUCCESS] "+msg, args...)
	}
}

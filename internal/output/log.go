// Package output provides terminal output utilities.
package output

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// logger is the package-level logger, replaced by SetupLogging.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	ReportCaller:    false,
})

// LogConfig controls how SetupLogging configures the logger.
type LogConfig struct {
	// Verbose enables debug level, caller reporting, and forces timestamps on.
	Verbose bool

	// Timestamps overrides timestamp display. Nil means the default (on).
	Timestamps *bool

	// Writer is the log destination. Nil means os.Stderr.
	Writer io.Writer
}

// SetupLogging configures the logger based on verbosity and timestamps.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	if cfg.Verbose {
		timestamps = true
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      time.TimeOnly,
	})
}

// Logger returns the configured logger.
func Logger() *log.Logger {
	return logger
}

// ScopedLogger returns a child of base scoped to one registry component.
// Lines are prefixed with a dim "c:" and the name.
func ScopedLogger(base *log.Logger, name string) *log.Logger {
	return base.WithPrefix(StyleDim.Render("c:") + StyleNoun.Render(name))
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

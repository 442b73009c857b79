package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func captureLog(cfg LogConfig) *bytes.Buffer {
	var buf bytes.Buffer
	cfg.Writer = &buf
	SetupLogging(cfg)
	return &buf
}

func TestSetupLogging_TimestampDefaultOn(t *testing.T) {
	buf := captureLog(LogConfig{})
	logger.Info("test")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}`, strings.TrimSpace(buf.String()))
}

func TestSetupLogging_TimestampExplicitlyDisabled(t *testing.T) {
	buf := captureLog(LogConfig{Timestamps: BoolPtr(false)})
	logger.Info("hello")
	out := strings.TrimSpace(buf.String())
	assert.NotRegexp(t, `^\d{1,2}:\d{2}:\d{2}`, out, "output should not start with a timestamp")
	assert.Contains(t, out, "hello")
}

func TestSetupLogging_VerboseForcesTimestampsOn(t *testing.T) {
	buf := captureLog(LogConfig{Verbose: true, Timestamps: BoolPtr(false)})
	logger.Debug("verbose-msg")
	out := buf.String()
	assert.Contains(t, out, "verbose-msg", "debug message should appear in verbose mode")
	assert.Regexp(t, `\d{2}:\d{2}:\d{2}`, out, "verbose should force timestamps on")
}

func TestSetupLogging_Levels(t *testing.T) {
	SetupLogging(LogConfig{Verbose: true, Writer: &bytes.Buffer{}})
	assert.Equal(t, log.DebugLevel, Logger().GetLevel())

	SetupLogging(LogConfig{Writer: &bytes.Buffer{}})
	assert.Equal(t, log.InfoLevel, Logger().GetLevel())
}

func TestSetupLogging_DebugHiddenByDefault(t *testing.T) {
	buf := captureLog(LogConfig{Timestamps: BoolPtr(false)})
	Debug("hidden")
	Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestScopedLogger_HasPrefix(t *testing.T) {
	buf := captureLog(LogConfig{Timestamps: BoolPtr(false)})
	compLog := ScopedLogger(Logger(), "Table")
	assert.Contains(t, compLog.GetPrefix(), "Table")

	compLog.Info("adding")
	assert.Contains(t, buf.String(), "c:Table")
}

func TestScopedLogger_InheritsLevel(t *testing.T) {
	SetupLogging(LogConfig{Verbose: true, Writer: &bytes.Buffer{}})
	assert.Equal(t, log.DebugLevel, ScopedLogger(Logger(), "Pager").GetLevel())
}

func TestBoolPtr(t *testing.T) {
	assert.True(t, *BoolPtr(true))
	assert.False(t, *BoolPtr(false))
}

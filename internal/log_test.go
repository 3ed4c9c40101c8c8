package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, LogLevelDebug, ParseLogLevel(" DEBUG "))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(LogLevelWarn, &buf).WithComponent("Ingest")

	l.Info("hidden %d", 1)
	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Warn("imported %d draws", 3)
	out := buf.String()
	assert.Contains(t, out, "imported 3 draws")
	assert.Contains(t, out, "component=Ingest")
	assert.Contains(t, out, "level=warning")
	assert.Equal(t, LogLevelWarn, l.GetLevel())
}

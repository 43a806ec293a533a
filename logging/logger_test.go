package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFormatter(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableTimestamp: true}}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Unparseable Started timestamp",
		Data: logrus.Fields{
			"component": "sessions",
			"value":     "yesterday",
			"session":   "a.md",
		},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)

	assert.True(t, strings.HasPrefix(line, "[WARN]"), line)
	assert.Contains(t, line, "sessions")
	assert.Contains(t, line, "Unparseable Started timestamp session=a.md value=yesterday")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestTextFormatterTimestamp(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableComponent: true}}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "hello",
		Data:    logrus.Fields{"component": "x"},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02 03:04:05 [INFO] hello\n", string(out))
}

func TestNewLoggerIsCachedPerComponent(t *testing.T) {
	t.Setenv("SESSIONLOG_HOME", t.TempDir())
	t.Setenv("SESSIONLOG_LOG_LEVEL", "warn")

	a := NewLogger("cache-test")
	b := NewLogger("cache-test")
	assert.Same(t, a, b)
	assert.Equal(t, "cache-test", a.Data["component"])
	assert.Equal(t, logrus.WarnLevel, a.Logger.GetLevel())
}

func TestGlobalOutputCapturesDebugLogs(t *testing.T) {
	t.Setenv("SESSIONLOG_HOME", t.TempDir())
	t.Setenv("SESSIONLOG_LOG_LEVEL", "debug")

	var buf bytes.Buffer
	restore := SetGlobalOutput(&buf)
	defer restore()

	logger := NewLogger("capture-test")
	logger.Debug("captured line")
	assert.Contains(t, buf.String(), "captured line")
}

func TestSetGlobalOutputRestore(t *testing.T) {
	var outer, inner bytes.Buffer
	restoreOuter := SetGlobalOutput(&outer)
	defer restoreOuter()

	restoreInner := SetGlobalOutput(&inner)
	_, _ = GetGlobalOutput().Write([]byte("inner"))
	restoreInner()
	_, _ = GetGlobalOutput().Write([]byte("outer"))

	assert.Equal(t, "inner", inner.String())
	assert.Equal(t, "outer", outer.String())

	restoreNil := SetGlobalOutput(nil)
	assert.Same(t, os.Stderr, stderrSink.target)
	restoreNil()
	assert.Same(t, &outer, stderrSink.target)
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)

	p.Success("done")
	p.Field("Active sessions before", 3)
	p.Item("s1.md", "/repo")
	p.ErrorPretty("failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "Active sessions before")
	assert.Contains(t, out, "s1.md")
	assert.Contains(t, out, "/repo")
	assert.Contains(t, out, "boom")
}

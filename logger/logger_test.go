package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: " DEBUG ", expected: slog.LevelDebug},
		{input: "warn", expected: slog.LevelWarn},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "info", expected: slog.LevelInfo},
		{input: "", expected: slog.LevelInfo},
		{input: "verbose", expected: slog.LevelInfo},
	}

	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			require.Equal(t, testCase.expected, parseLevel(testCase.input))
		})
	}
}

type recordedEntry struct {
	level   string
	msg     string
	keyvals []interface{}
}

type recordingLogger struct {
	entries []recordedEntry
}

func (r *recordingLogger) record(level string, msg string, keyvals []interface{}) {
	r.entries = append(r.entries, recordedEntry{level: level, msg: msg, keyvals: keyvals})
}

func (r *recordingLogger) Info(msg string, keyvals ...interface{})  { r.record("info", msg, keyvals) }
func (r *recordingLogger) Warn(msg string, keyvals ...interface{})  { r.record("warn", msg, keyvals) }
func (r *recordingLogger) Error(msg string, keyvals ...interface{}) { r.record("error", msg, keyvals) }
func (r *recordingLogger) Debug(msg string, keyvals ...interface{}) { r.record("debug", msg, keyvals) }

func TestFormatLogger(t *testing.T) {
	assert := require.New(t)
	recorder := &recordingLogger{}
	formatLogger := NewFormatLogger(recorder, "mcp")

	formatLogger.Infof("listening on %s", "/mcp")
	formatLogger.Errorf("failed to write response: %v", "broken pipe")

	assert.Equal([]recordedEntry{
		{level: "info", msg: "listening on /mcp", keyvals: []interface{}{"component", "mcp"}},
		{level: "error", msg: "failed to write response: broken pipe", keyvals: []interface{}{"component", "mcp"}},
	}, recorder.entries)
}

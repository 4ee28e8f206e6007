package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(t *testing.T, level LogLevel) (Logger, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	logger, err := NewZapLogger(LogConfig{
		Level:  level,
		Output: buf,
	})
	require.NoError(t, err)
	return logger, buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"WARN", WarnLevel},
		{"WARNING", WarnLevel},
		{"ERROR", ErrorLevel},
		{"garbage", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestZapAdapter_Levels(t *testing.T) {
	logger, buf := newBufferedLogger(t, InfoLevel)

	logger.Debug("should be filtered")
	logger.Info("info message", String("component", "engine"))

	if adapter, ok := logger.(*ZapAdapter); ok {
		_ = adapter.Sync()
	}

	output := buf.String()
	assert.NotContains(t, output, "should be filtered")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "engine")
}

func TestZapAdapter_ErrorField(t *testing.T) {
	logger, buf := newBufferedLogger(t, InfoLevel)

	logger.Error("enrichment failed", errors.New("whois unavailable"))

	output := buf.String()
	assert.Contains(t, output, "enrichment failed")
	assert.Contains(t, output, "whois unavailable")
}

func TestZapAdapter_WithFields(t *testing.T) {
	logger, buf := newBufferedLogger(t, InfoLevel)

	child := logger.WithFields(String("source", "google_trends"))
	child.Info("provider fired")

	output := buf.String()
	assert.Contains(t, output, "google_trends")
	assert.Contains(t, output, "provider fired")
}

func TestZapAdapter_WithContext(t *testing.T) {
	logger, buf := newBufferedLogger(t, InfoLevel)

	ctx := context.WithValue(context.Background(), "request_id", "req-42") //nolint:staticcheck
	logger.WithContext(ctx).Info("handling request")

	assert.Contains(t, buf.String(), "req-42")
}

func TestGlobalLogger(t *testing.T) {
	logger, _ := newBufferedLogger(t, DebugLevel)

	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	SetGlobalLogger(logger)
	assert.Equal(t, logger, GetGlobalLogger())
}

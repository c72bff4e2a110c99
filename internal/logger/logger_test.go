package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultWriter(t *testing.T) {
	logger := New(Config{Level: slog.LevelInfo, Format: "json"})
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.Info("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "\"level\":\"INFO\"")
}

func TestNew_FormatAutoDetection(t *testing.T) {
	// Production emits JSON.
	var prodBuf bytes.Buffer
	prod := New(Config{Level: slog.LevelInfo, Environment: "production", Writer: &prodBuf})
	prod.Info("hello")
	assert.True(t, strings.HasPrefix(prodBuf.String(), "{"), "production output should be JSON: %s", prodBuf.String())

	// Development emits the pretty format.
	var devBuf bytes.Buffer
	dev := New(Config{Level: slog.LevelInfo, Environment: "development", Writer: &devBuf})
	dev.Info("hello")
	assert.False(t, strings.HasPrefix(devBuf.String(), "{"), "development output should not be JSON: %s", devBuf.String())
	assert.Contains(t, devBuf.String(), "hello")
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: "json", Writer: &buf})

	logger.Info("suppressed")
	logger.Warn("emitted")

	assert.NotContains(t, buf.String(), "suppressed")
	assert.Contains(t, buf.String(), "emitted")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.WithError(errors.New("boom")).Error("operation failed")

	require.Contains(t, buf.String(), "operation failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(handler.WithAttrs([]slog.Attr{slog.String("component", "hub")}))

	logger.Info("client joined", "room", "book:42")

	out := buf.String()
	assert.Contains(t, out, "client joined")
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "book:42")
}

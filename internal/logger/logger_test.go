package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf})
	require.NoError(t, err)

	l.Info("resolved", "key", "VULKAN_LIB")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "resolved", rec["msg"])
	require.Equal(t, "VULKAN_LIB", rec["key"])
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(Config{Level: slog.LevelWarn, Format: "text", Output: &buf})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	// not a terminal, so no escape codes
	require.NotContains(t, buf.String(), "\x1b[")
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	require.Error(t, err)
}

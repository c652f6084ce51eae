package bootstrap

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogHandler_FormatFollowsDevMode(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newLogHandler(&buf, false)).Info("session started", "role", "staff")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "session started", line["msg"])
	assert.Equal(t, "staff", line["role"])

	buf.Reset()
	slog.New(newLogHandler(&buf, true)).Info("session started", "role", "staff")
	assert.Contains(t, buf.String(), `msg="session started" role=staff`)
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { SetLogLevel(slog.LevelInfo) })

	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, true))
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	SetLogLevel(slog.LevelDebug)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
